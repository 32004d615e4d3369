package expr

import (
	"sort"

	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Call describes one function call site: the lowercased function name and
// the number of arguments passed to it.
type Call struct {
	Name string
	Args int
}

// CalledFunctions returns the distinct function calls in text, sorted by
// name and then by argument count.
func CalledFunctions(text string) ([]Call, error) {
	parsed, err := Parse(text)
	if err != nil {
		return nil, err
	}

	seen := make(map[Call]struct{})
	walkForFunctions(parsed, seen)

	calls := make([]Call, 0, len(seen))
	for c := range seen {
		calls = append(calls, c)
	}
	sort.Slice(calls, func(i, j int) bool {
		if calls[i].Name != calls[j].Name {
			return calls[i].Name < calls[j].Name
		}
		return calls[i].Args < calls[j].Args
	})
	return calls, nil
}

// walkForFunctions recursively walks the AST, looking only for function calls.
// Only the node kinds Parse can produce are visited.
func walkForFunctions(expr hclsyntax.Expression, calls map[Call]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		calls[Call{Name: e.Name, Args: len(e.Args)}] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, calls)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, calls)
		walkForFunctions(e.RHS, calls)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, calls)
		walkForFunctions(e.TrueResult, calls)
		walkForFunctions(e.FalseResult, calls)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, calls)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, calls)
	}
}

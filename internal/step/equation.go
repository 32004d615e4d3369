package step

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/stepsolver/internal/expr"
)

// Equation is an assignment whose left side names the variable that the
// right side's expression solves for, e.g. "B" = "A + 1".
type Equation struct {
	left  string
	right string

	leftTokens  []expr.Token
	rightTokens []expr.Token

	inputs  []string
	outputs []string
}

var _ Step = (*Equation)(nil)
var _ Expressioner = (*Equation)(nil)

// NewEquation reads both sides of an equation. It fails with an
// *expr.ParseError if either side is malformed or empty.
func NewEquation(left, right string) (*Equation, error) {
	e := &Equation{}
	if err := e.load(left, right); err != nil {
		return nil, err
	}
	return e, nil
}

// MustEquation is like NewEquation but panics on error. Intended for tests
// and static tables.
func MustEquation(left, right string) *Equation {
	e, err := NewEquation(left, right)
	if err != nil {
		panic(err)
	}
	return e
}

// load tokenizes both sides and derives inputs and outputs. The receiver is
// only modified when everything succeeds.
func (e *Equation) load(left, right string) error {
	leftTokens, err := tokenizeSide(left)
	if err != nil {
		return err
	}
	rightTokens, err := tokenizeSide(right)
	if err != nil {
		return err
	}

	outputs, err := variables(leftTokens)
	if err != nil {
		return err
	}
	inputs, err := variables(rightTokens)
	if err != nil {
		return err
	}

	e.left, e.right = left, right
	e.leftTokens, e.rightTokens = leftTokens, rightTokens
	e.inputs = distinct(inputs)
	e.outputs = outputs
	return nil
}

func tokenizeSide(text string) ([]expr.Token, error) {
	tokens, err := expr.Tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &expr.ParseError{Text: text, Msg: "empty expression"}
	}
	return tokens, nil
}

// variables returns the lowercased variable references in tokens, with
// repetition, in order of appearance.
func variables(tokens []expr.Token) ([]string, error) {
	if len(tokens) == 0 {
		return nil, &ArgumentError{Arg: "tokens", Reason: "empty token list"}
	}
	var vars []string
	for i, t := range tokens {
		if expr.IsVariable(tokens, i) {
			vars = append(vars, strings.ToLower(t.Value))
		}
	}
	return vars, nil
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Kind implements Step.
func (e *Equation) Kind() Kind { return KindEquation }

// Left returns the left-side text.
func (e *Equation) Left() string { return e.left }

// Right returns the right-side text.
func (e *Equation) Right() string { return e.right }

// Inputs implements Step.
func (e *Equation) Inputs() []string { return e.inputs }

// Outputs implements Step.
func (e *Equation) Outputs() []string { return e.outputs }

// Expressions implements Expressioner.
func (e *Equation) Expressions() []string { return []string{e.left, e.right} }

func (e *Equation) String() string {
	return e.left + " = " + e.right
}

// Solve evaluates the right side against env and stores the result under the
// left-side variable. The left side must be a single variable.
func (e *Equation) Solve(ev Evaluator, env *expr.Environment) (bool, error) {
	if len(e.leftTokens) != 1 || len(e.outputs) != 1 {
		return false, &ArgumentError{Arg: "left", Reason: fmt.Sprintf("left side %q is not a single variable", e.left)}
	}
	if env == nil {
		return false, &ArgumentError{Arg: "env", Reason: "no environment"}
	}

	v, err := ev.Evaluate(e.right, env)
	if err != nil {
		return false, err
	}
	return env.Set(e.outputs[0], v), nil
}

// Clone implements Step. The token and name slices are shared because load
// replaces them rather than writing into them.
func (e *Equation) Clone() Step {
	c := *e
	return &c
}

// TranslateVariables replaces every variable token on either side whose
// lowercase name is a key of rename, then re-reads both sides. It returns true
// only if every variable occurrence was found in rename. If the rewritten text
// no longer parses the equation is left unchanged and the error returned.
func (e *Equation) TranslateVariables(rename map[string]string) (bool, error) {
	if len(rename) == 0 {
		return false, &ArgumentError{Arg: "rename", Reason: "empty rename map"}
	}

	left, leftFound, leftTotal := substitute(e.left, e.leftTokens, rename)
	right, rightFound, rightTotal := substitute(e.right, e.rightTokens, rename)

	if err := e.load(left, right); err != nil {
		return false, err
	}
	return leftFound+rightFound == leftTotal+rightTotal, nil
}

func substitute(src string, tokens []expr.Token, rename map[string]string) (string, int, int) {
	out := make([]expr.Token, len(tokens))
	copy(out, tokens)

	found, total := 0, 0
	for i, t := range out {
		if !expr.IsVariable(out, i) {
			continue
		}
		total++
		if to, ok := rename[strings.ToLower(t.Value)]; ok {
			out[i].Value = to
			found++
		}
	}
	return expr.Serialize(src, out), found, total
}

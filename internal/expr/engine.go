// Package expr is the expression engine: it tokenizes arithmetic text into
// typed tokens and evaluates text against an Environment, with support for
// named user functions. Parsing and evaluation are delegated to HCL's native
// expression syntax; values are carried as cty numbers.
package expr

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// Func is the body of a user function over plain numbers.
type Func func(args ...float64) (float64, error)

// Engine evaluates expression text. Functions are registered once at startup;
// an Engine must not be modified while it is evaluating.
type Engine struct {
	functions map[string]function.Function
}

// NewEngine returns an engine with no functions registered.
func NewEngine() *Engine {
	return &Engine{functions: make(map[string]function.Function)}
}

// RegisterFunction adds a function of fixed arity. Arguments that are
// booleans (the result of a comparison) arrive as 1 or 0. Registering a name
// twice replaces the earlier function.
func (e *Engine) RegisterFunction(name string, arity int, body Func) error {
	if body == nil {
		return fmt.Errorf("function %q has no body", name)
	}
	if arity < 0 {
		return fmt.Errorf("function %q: negative arity %d", name, arity)
	}

	params := make([]function.Parameter, arity)
	for i := range params {
		params[i] = function.Parameter{Name: fmt.Sprintf("arg%d", i), Type: cty.DynamicPseudoType}
	}
	return e.Register(name, function.New(&function.Spec{
		Params: params,
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			in := make([]float64, len(args))
			for i, arg := range args {
				f, err := toFloat(arg)
				if err != nil {
					return cty.NilVal, function.NewArgError(i, err)
				}
				in[i] = f
			}
			out, err := body(in...)
			if err != nil {
				return cty.NilVal, err
			}
			return numberVal(out)
		},
	}))
}

// Register adds a ready-made cty function, such as one from cty's stdlib.
func (e *Engine) Register(name string, fn function.Function) error {
	if name == "" || !isIdent(name) {
		return fmt.Errorf("invalid function name %q", name)
	}
	e.functions[strings.ToLower(name)] = fn
	return nil
}

// Arity reports the number of fixed parameters of a registered function and
// whether it accepts any number of further arguments.
func (e *Engine) Arity(name string) (params int, variadic bool, ok bool) {
	fn, ok := e.functions[strings.ToLower(name)]
	if !ok {
		return 0, false, false
	}
	return len(fn.Params()), fn.VarParam() != nil, true
}

// Functions returns the names of all registered functions, sorted.
func (e *Engine) Functions() []string {
	names := make([]string, 0, len(e.functions))
	for name := range e.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate computes the value of text with variables taken from env.
// Every failure is returned as an *EvaluationError.
func (e *Engine) Evaluate(text string, env *Environment) (result float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EvaluationError{Text: text, Err: fmt.Errorf("arithmetic fault: %v", r)}
		}
	}()

	parsed, err := Parse(text)
	if err != nil {
		return 0, &EvaluationError{Text: text, Err: err}
	}

	vars := make(map[string]cty.Value)
	if env != nil {
		for name, v := range env.values {
			if math.IsNaN(v) {
				continue
			}
			vars[name] = cty.NumberFloatVal(v)
		}
	}

	val, diags := parsed.Value(&hcl.EvalContext{Variables: vars, Functions: e.functions})
	if diags.HasErrors() {
		return 0, &EvaluationError{Text: text, Err: diags}
	}

	result, err = toFloat(val)
	if err != nil {
		return 0, &EvaluationError{Text: text, Err: err}
	}
	return result, nil
}

// Parse reads text into an HCL expression tree. Names are lowercased and the
// power operator becomes a call to the function named pow, which the engine
// evaluating the tree must provide.
func Parse(text string) (hclsyntax.Expression, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &ParseError{Text: text, Msg: "empty expression"}
	}

	src, err := canonical(tokens)
	if err != nil {
		return nil, &ParseError{Text: text, Msg: err.Error()}
	}
	parsed, diags := hclsyntax.ParseExpression([]byte(src), "", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &ParseError{Text: text, Msg: diags.Error()}
	}
	return parsed, nil
}

func toFloat(v cty.Value) (float64, error) {
	if v.IsNull() {
		return 0, errors.New("value is null")
	}
	if !v.IsKnown() {
		return 0, errors.New("value is unknown")
	}
	v, _ = v.Unmark()

	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case cty.Bool:
		if v.True() {
			return 1, nil
		}
		return 0, nil
	}

	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("a number is required, got %s", v.Type().FriendlyName())
	}
	f, _ := n.AsBigFloat().Float64()
	return f, nil
}

func numberVal(f float64) (cty.Value, error) {
	if math.IsNaN(f) {
		return cty.NilVal, errors.New("result is not a number")
	}
	return cty.NumberFloatVal(f), nil
}

func isIdent(name string) bool {
	tokens, err := Tokenize(name)
	return err == nil && len(tokens) == 1 && tokens[0].Type == Text
}

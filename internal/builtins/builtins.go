// Package builtins registers the standard math functions with an expression
// engine.
package builtins

import (
	"math"

	"github.com/specialistvlad/stepsolver/internal/expr"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

type builtin struct {
	name  string
	arity int
	fn    expr.Func
}

func unary(f func(float64) float64) expr.Func {
	return func(args ...float64) (float64, error) {
		return f(args[0]), nil
	}
}

var defaults = []builtin{
	{"sin", 1, unary(math.Sin)},
	{"cos", 1, unary(math.Cos)},
	{"csc", 1, unary(func(a float64) float64 { return 1 / math.Sin(a) })},
	{"sec", 1, unary(func(a float64) float64 { return 1 / math.Cos(a) })},
	{"asin", 1, unary(math.Asin)},
	{"acos", 1, unary(math.Acos)},
	{"tan", 1, unary(math.Tan)},
	{"cot", 1, unary(func(a float64) float64 { return 1 / math.Tan(a) })},
	{"atan", 1, unary(math.Atan)},
	{"acot", 1, unary(func(a float64) float64 { return math.Atan(1 / a) })},
	{"loge", 1, unary(math.Log)},
	{"log10", 1, unary(math.Log10)},
	{"logn", 2, func(args ...float64) (float64, error) {
		return math.Log(args[0]) / math.Log(args[1]), nil
	}},
	{"sqrt", 1, unary(math.Sqrt)},
	{"abs", 1, unary(math.Abs)},
	{"if", 3, func(args ...float64) (float64, error) {
		if args[0] != 0 {
			return args[1], nil
		}
		return args[2], nil
	}},
	{"ifless", 4, func(args ...float64) (float64, error) {
		if args[0] < args[1] {
			return args[2], nil
		}
		return args[3], nil
	}},
	{"ifmore", 4, func(args ...float64) (float64, error) {
		if args[0] > args[1] {
			return args[2], nil
		}
		return args[3], nil
	}},
	{"ifequal", 4, func(args ...float64) (float64, error) {
		if args[0] == args[1] {
			return args[2], nil
		}
		return args[3], nil
	}},
	{"ceiling", 1, unary(math.Ceil)},
	{"floor", 1, unary(math.Floor)},
	{"truncate", 1, unary(math.Trunc)},
	// Midpoints round to even.
	{"round", 1, unary(math.RoundToEven)},
}

// fromStdlib are taken unchanged from cty's standard library.
var fromStdlib = map[string]function.Function{
	"pow": stdlib.PowFunc,
	"min": stdlib.MinFunc,
	"max": stdlib.MaxFunc,
}

// Register adds every built-in function to engine.
func Register(engine *expr.Engine) error {
	for _, b := range defaults {
		if err := engine.RegisterFunction(b.name, b.arity, b.fn); err != nil {
			return err
		}
	}
	for name, fn := range fromStdlib {
		if err := engine.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// NewEngine returns an engine with all built-in functions registered.
func NewEngine() *expr.Engine {
	engine := expr.NewEngine()
	if err := Register(engine); err != nil {
		// The table above is static; a failure here is a programming error.
		panic(err)
	}
	return engine
}

package builtins

import (
	"math"
	"testing"

	"github.com/specialistvlad/stepsolver/internal/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	engine := NewEngine()
	env := expr.NewEnvironment(map[string]float64{"x": 2.5, "y": -1})

	testCases := []struct {
		text string
		want float64
	}{
		{"sqrt(16)", 4},
		{"abs(y)", 1},
		{"if(x > 2, 10, 20)", 10},
		{"if(0, 10, 20)", 20},
		{"ifless(x, 3, 1, 2)", 1},
		{"ifmore(x, 3, 1, 2)", 2},
		{"ifequal(x, 2.5, 1, 2)", 1},
		{"ceiling(x)", 3},
		{"floor(x)", 2},
		{"truncate(-x)", -2},
		{"round(x)", 2},
		{"round(3.5)", 4},
		{"logn(8, 2)", 3},
		{"log10(1000)", 3},
		{"loge(1)", 0},
		{"pow(2, 10)", 1024},
		{"min(x, y, 0)", -1},
		{"max(x, y, 0)", 2.5},
		{"sin(0) + cos(0)", 1},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := engine.Evaluate(tc.text, env)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestBuiltins_Trigonometric(t *testing.T) {
	engine := NewEngine()
	env := expr.NewEnvironment(map[string]float64{"a": math.Pi / 4})

	for text, want := range map[string]float64{
		"tan(a)":  1,
		"cot(a)":  1,
		"csc(a)":  math.Sqrt2,
		"sec(a)":  math.Sqrt2,
		"atan(1)": math.Pi / 4,
		"acot(1)": math.Pi / 4,
		"asin(1)": math.Pi / 2,
		"acos(1)": 0,
	} {
		got, err := engine.Evaluate(text, env)
		require.NoError(t, err, text)
		assert.InDelta(t, want, got, 1e-9, text)
	}
}

func TestBuiltins_Registered(t *testing.T) {
	engine := NewEngine()
	for _, name := range []string{"sin", "if", "ifequal", "round", "pow", "max"} {
		_, _, ok := engine.Arity(name)
		assert.True(t, ok, "expected %q to be registered", name)
	}
	params, variadic, _ := engine.Arity("ifless")
	assert.Equal(t, 4, params)
	assert.False(t, variadic)
}

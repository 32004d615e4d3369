package validate

import (
	"testing"

	"github.com/specialistvlad/stepsolver/internal/builtins"
	"github.com/specialistvlad/stepsolver/internal/errwrap"
	"github.com/specialistvlad/stepsolver/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntax(t *testing.T) {
	steps := []step.Step{
		step.MustEquation("a", "b + 1"),
		step.MustEquation("c", "b +"),
		step.MustEquation("d", "sqrt(b"),
	}
	issues := Syntax(steps)
	require.Len(t, issues, 2)
	assert.Equal(t, 1, issues[0].Step)
	assert.Equal(t, 2, issues[1].Step)
	assert.Equal(t, Error, issues[0].Severity)
	assert.Equal(t, PassSyntax, issues[0].Pass)
}

func TestContext(t *testing.T) {
	engine := builtins.NewEngine()
	steps := []step.Step{
		step.MustEquation("a", "sqrt(b) + max(b, 1)"),
		step.MustEquation("c", "nosuch(b)"),
		step.MustEquation("d", "sqrt(b, 2)"),
		step.MustEquation("e", "if(b, 1)"),
		step.MustEquation("f", "b +"),
	}
	issues := Context(steps, engine)
	require.Len(t, issues, 3)
	assert.Equal(t, 1, issues[0].Step)
	assert.ErrorContains(t, issues[0], `unknown function "nosuch"`)
	assert.Equal(t, 2, issues[1].Step)
	assert.ErrorContains(t, issues[1], `function "sqrt" takes 1 argument, called with 2`)
	assert.Equal(t, 3, issues[2].Step)
	assert.ErrorContains(t, issues[2], `function "if" takes 3 arguments, called with 2`)
}

func TestProducers(t *testing.T) {
	steps := []step.Step{
		step.MustEquation("x", "1"),
		step.MustEquation("X", "2"),
		step.MustEquation("A", "3"),
		step.MustEquation("y", "x"),
	}
	issues := Producers(steps, map[string]float64{"a": 0, "z": 1})
	require.Len(t, issues, 2)
	assert.Equal(t, Warning, issues[0].Severity)
	assert.Equal(t, -1, issues[0].Step)
	assert.EqualError(t, issues[0], `producers warning: variable "a" has 2 producers: parameter a, step 2`)
	assert.EqualError(t, issues[1], `producers warning: variable "x" has 2 producers: step 0, step 1`)
}

func TestRun(t *testing.T) {
	steps := []step.Step{
		step.MustEquation("x", "1"),
		step.MustEquation("x", "nosuch(1)"),
	}
	report := Run(steps, nil, builtins.NewEngine())
	require.Len(t, report.Issues, 2)
	assert.True(t, report.HasErrors())
	assert.Len(t, errwrap.Errors(report.Err(false)), 2)
	assert.Len(t, errwrap.Errors(report.Err(true)), 1)

	clean := Run([]step.Step{step.MustEquation("y", "x")}, map[string]float64{"x": 1}, builtins.NewEngine())
	assert.Empty(t, clean.Issues)
	assert.False(t, clean.HasErrors())
	assert.NoError(t, clean.Err(false))
}

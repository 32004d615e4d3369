package solution

import (
	"context"
	"testing"

	"github.com/specialistvlad/stepsolver/internal/dag"
	"github.com/specialistvlad/stepsolver/internal/expr"
	"github.com/specialistvlad/stepsolver/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(steps []step.Step) []string {
	out := make([]string, len(steps))
	for i, st := range steps {
		out[i] = st.String()
	}
	return out
}

func TestSolution_Evaluate(t *testing.T) {
	ctx := context.Background()
	s := New([]step.Step{
		step.MustEquation("C", "B * 2"),
		step.MustEquation("B", "A + 1"),
	}, map[string]float64{"A": 3})

	result, err := s.Evaluate(ctx)
	require.NoError(t, err)
	assert.True(t, result.Complete())
	assert.Equal(t, []string{"B = A + 1", "C = B * 2"}, texts(s.Ordered()))
	assert.Equal(t, []string{"b", "c"}, s.SolvedVariables())

	b, ok := result.Environment.Get("B")
	require.True(t, ok)
	assert.Equal(t, 4.0, b)
	c, ok := result.Environment.Get("c")
	require.True(t, ok)
	assert.Equal(t, 8.0, c)
	assert.Empty(t, result.Redefined)
}

func TestSolution_EvaluateUnsolvable(t *testing.T) {
	ctx := context.Background()
	s := New([]step.Step{step.MustEquation("Y", "X + Z")}, map[string]float64{"X": 1})

	result, err := s.Evaluate(ctx)
	require.NoError(t, err)
	assert.False(t, result.Complete())
	assert.Empty(t, s.Ordered())
	assert.Equal(t, []string{"Y = X + Z"}, texts(result.Unsolved))

	findings := s.Diagnose()
	require.Len(t, findings, 1)
	assert.Equal(t, dag.Missing, findings[0].Reason)
	assert.Equal(t, []string{"z"}, findings[0].Variables)
}

func TestSolution_EvaluateRedefinition(t *testing.T) {
	ctx := context.Background()
	s := New([]step.Step{step.MustEquation("a", "a * 2")}, map[string]float64{"a": 5})

	result, err := s.Evaluate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Redefined)
	v, _ := result.Environment.Get("a")
	assert.Equal(t, 10.0, v)
}

func TestSolution_EvaluateError(t *testing.T) {
	ctx := context.Background()
	s := New([]step.Step{step.MustEquation("a", "nosuch(b)")}, map[string]float64{"b": 1})

	_, err := s.Evaluate(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "step 0 (a = nosuch(b))")
}

func TestSolution_ChangesResetPlan(t *testing.T) {
	ctx := context.Background()
	s := New([]step.Step{step.MustEquation("y", "x + 1")}, nil)

	s.Order(ctx)
	require.Len(t, s.Unsolved(), 1)

	s.SetParameter("X", 2)
	assert.Nil(t, s.Plan())
	s.Order(ctx)
	assert.Empty(t, s.Unsolved())

	s.AddSteps(step.MustEquation("z", "y * w"))
	assert.Nil(t, s.Ordered())
	s.Order(ctx)
	assert.Equal(t, []string{"z = y * w"}, texts(s.Unsolved()))
}

func TestSolution_SetParameterReplacesAnyCase(t *testing.T) {
	s := New(nil, map[string]float64{"Speed": 1})
	s.SetParameter("speed", 2)
	assert.Equal(t, map[string]float64{"speed": 2}, s.Parameters())
}

func TestNew_FoldsParameterCase(t *testing.T) {
	s := New(nil, map[string]float64{"SPEED": 1, "Speed": 2, "speed": 3, "t": 4})
	assert.Equal(t, map[string]float64{"speed": 3, "t": 4}, s.Parameters())

	s = New(nil, map[string]float64{"A": 1, "a": 2})
	assert.Len(t, s.Parameters(), 1)
	assert.Equal(t, map[string]float64{"a": 2}, s.Parameters(), "sorted order binds A first")

	params := map[string]float64{"Mass": 7}
	s = New(nil, params)
	s.SetParameter("mass", 8)
	assert.Equal(t, map[string]float64{"Mass": 7}, params, "caller's map is copied")
}

func TestSolution_TranslateVariables(t *testing.T) {
	ctx := context.Background()
	s := New([]step.Step{
		step.MustEquation("A", "a + b"),
		step.MustEquation("c", "a"),
	}, map[string]float64{"foo": 1, "b": 2})

	ok, err := s.TranslateVariables(ctx, map[string]string{"a": "foo"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"foo = foo + b", "c = foo"}, texts(s.Steps()))

	_, err = s.TranslateVariables(ctx, nil)
	var argErr *step.ArgumentError
	assert.ErrorAs(t, err, &argErr)
}

func TestSolution_TranslateVariablesAllOrNothing(t *testing.T) {
	ctx := context.Background()
	first := step.MustEquation("y", "x + 1")
	s := New([]step.Step{first, step.MustEquation("z", "w * 2")}, nil)
	s.Order(ctx)

	_, err := s.TranslateVariables(ctx, map[string]string{"x": "u", "w": "true"})
	var parseErr *expr.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, []string{"y = x + 1", "z = w * 2"}, texts(s.Steps()), "no step changes when one fails")
	assert.Equal(t, "y = x + 1", first.String(), "caller's step is not modified")
	assert.NotNil(t, s.Plan(), "plan survives a failed translation")

	ok, err := s.TranslateVariables(ctx, map[string]string{"x": "u", "w": "v"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"y = u + 1", "z = v * 2"}, texts(s.Steps()))
	assert.Equal(t, "y = x + 1", first.String())
	assert.Nil(t, s.Plan())
}

func TestSolution_TranslateParameters(t *testing.T) {
	ctx := context.Background()

	t.Run("full", func(t *testing.T) {
		s := New(nil, map[string]float64{"A": 1, "b": 2})
		ok, err := s.TranslateParameters(ctx, map[string]string{"a": "x", "b": "y"})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]float64{"x": 1, "y": 2}, s.Parameters())
	})

	t.Run("partial", func(t *testing.T) {
		s := New(nil, map[string]float64{"a": 1, "b": 2})
		ok, err := s.TranslateParameters(ctx, map[string]string{"a": "x"})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, map[string]float64{"x": 1, "b": 2}, s.Parameters())
	})

	t.Run("collision", func(t *testing.T) {
		s := New(nil, map[string]float64{"a": 1, "b": 2})
		_, err := s.TranslateParameters(ctx, map[string]string{"a": "B"})
		var collision *CollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, []string{"a", "b"}, collision.Sources)
		assert.Equal(t, map[string]float64{"a": 1, "b": 2}, s.Parameters())
	})

	t.Run("empty", func(t *testing.T) {
		s := New(nil, map[string]float64{"a": 1})
		_, err := s.TranslateParameters(ctx, map[string]string{})
		var argErr *step.ArgumentError
		assert.ErrorAs(t, err, &argErr)
	})
}

func TestSolution_Validate(t *testing.T) {
	s := New([]step.Step{
		step.MustEquation("a", "nosuch(b)"),
		step.MustEquation("a", "1"),
	}, map[string]float64{"b": 1})

	report := s.Validate(context.Background())
	assert.True(t, report.HasErrors())
	require.Len(t, report.Issues, 2)
}

package dag

import (
	"context"
	"testing"

	"github.com/specialistvlad/stepsolver/internal/scheduler"
	"github.com/specialistvlad/stepsolver/internal/step"
	"github.com/stretchr/testify/assert"
)

func TestDiagnose(t *testing.T) {
	steps := []step.Step{
		step.MustEquation("y", "x + z"),  // 0: z is never produced
		step.MustEquation("a", "b + 1"),  // 1: a <-> b
		step.MustEquation("b", "a + 1"),  // 2
		step.MustEquation("c", "a * y"),  // 3: waits on leftovers only
		step.MustEquation("n", "n + 1"),  // 4: reads its own output
		step.MustEquation("ok", "x"),     // 5: schedulable
		step.MustEquation("d", "ok + c"), // 6: ok is solved, c is not
	}
	params := map[string]float64{"X": 1}
	plan := scheduler.Order(context.Background(), steps, params)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 6}, plan.Unsolved)

	findings := Diagnose(steps, plan, params)
	assert.Equal(t, []Finding{
		{Step: 0, Reason: Missing, Variables: []string{"z"}, WaitsOn: []int{}, Blocks: []int{3}},
		{Step: 1, Reason: Cyclic, Variables: []string{"b"}, WaitsOn: []int{2}, Blocks: []int{2, 3}},
		{Step: 2, Reason: Cyclic, Variables: []string{"a"}, WaitsOn: []int{1}, Blocks: []int{1}},
		{Step: 3, Reason: Blocked, Variables: []string{"a", "y"}, WaitsOn: []int{0, 1}, Blocks: []int{6}},
		{Step: 4, Reason: Cyclic, Variables: []string{"n"}, WaitsOn: []int{}, Blocks: []int{}},
		{Step: 6, Reason: Blocked, Variables: []string{"c"}, WaitsOn: []int{3}, Blocks: []int{}},
	}, findings)
	assert.Equal(t, "step 3 is blocked (a, y)", findings[3].String())
}

func TestDiagnose_CompletePlan(t *testing.T) {
	steps := []step.Step{step.MustEquation("b", "a")}
	params := map[string]float64{"a": 1}
	plan := scheduler.Order(context.Background(), steps, params)
	assert.Nil(t, Diagnose(steps, plan, params))
	assert.Nil(t, Diagnose(steps, nil, params))
}

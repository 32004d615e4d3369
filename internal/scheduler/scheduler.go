package scheduler

import (
	"context"
	"sort"
	"strings"

	"github.com/specialistvlad/stepsolver/internal/ctxlog"
	"github.com/specialistvlad/stepsolver/internal/step"
)

// Plan is the outcome of a scheduling pass. All step references are indexes
// into the slice given to Order.
type Plan struct {
	// Order lists the schedulable steps in a safe evaluation order.
	Order []int
	// Unsolved lists, ascending, the steps that never became ready.
	Unsolved []int
	// Solved lists the variables produced by ordered steps, in the order they
	// were first solved.
	Solved []string
}

// Complete reports whether every step was scheduled.
func (p *Plan) Complete() bool {
	return len(p.Unsolved) == 0
}

// Order schedules steps given the seed parameters. Only the parameter names
// matter; they are compared case-insensitively. Identical inputs always
// produce an identical Plan.
func Order(ctx context.Context, steps []step.Step, params map[string]float64) *Plan {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scheduling steps.", "steps", len(steps), "parameters", len(params))

	known := make(map[string]struct{}, len(params))
	for name := range params {
		known[strings.ToLower(name)] = struct{}{}
	}

	plan := &Plan{Order: make([]int, 0, len(steps))}

	// outstanding[id] is the number of unknown inputs step id still waits on;
	// zero means the step is not pending.
	outstanding := make([]int, len(steps))
	// consumers maps a variable to the pending steps that wait on it, ascending.
	consumers := make(map[string][]int)

	var ready []int
	for id, s := range steps {
		var missing map[string]struct{}
		for _, in := range s.Inputs() {
			if _, ok := known[in]; ok {
				continue
			}
			if missing == nil {
				missing = make(map[string]struct{})
			}
			missing[in] = struct{}{}
		}

		if len(missing) == 0 {
			ready = append(ready, id)
			continue
		}
		outstanding[id] = len(missing)
		for _, in := range s.Inputs() {
			if _, ok := missing[in]; ok {
				consumers[in] = append(consumers[in], id)
			}
		}
	}
	logger.Debug("Seeding complete.", "ready", len(ready), "pending", len(steps)-len(ready))

	solved := make(map[string]struct{})
	for head := 0; head < len(ready); head++ {
		id := ready[head]
		plan.Order = append(plan.Order, id)

		var affected []int
		for _, out := range steps[id].Outputs() {
			if _, ok := solved[out]; ok {
				// A variable is satisfied once; later producers only
				// overwrite its value during evaluation.
				continue
			}
			solved[out] = struct{}{}
			plan.Solved = append(plan.Solved, out)

			for _, c := range consumers[out] {
				if outstanding[c] == 0 {
					continue
				}
				outstanding[c]--
				affected = append(affected, c)
			}
		}

		sort.Ints(affected)
		for i, c := range affected {
			if i > 0 && affected[i-1] == c {
				continue
			}
			if outstanding[c] == 0 {
				ready = append(ready, c)
				logger.Debug("Step became ready.", "step", c, "after", id)
			}
		}
	}

	for id := range steps {
		if outstanding[id] > 0 {
			plan.Unsolved = append(plan.Unsolved, id)
		}
	}

	if plan.Complete() {
		logger.Debug("Scheduling complete.", "ordered", len(plan.Order))
	} else {
		logger.Debug("Scheduling left steps unsolved.", "ordered", len(plan.Order), "unsolved", len(plan.Unsolved))
	}
	return plan
}

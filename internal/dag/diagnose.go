package dag

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/stepsolver/internal/scheduler"
	"github.com/specialistvlad/stepsolver/internal/step"
)

// Reason classifies why a step never became ready.
type Reason int

const (
	// Missing means an input is neither a parameter nor produced by any step.
	Missing Reason = iota
	// Cyclic means the step depends on itself, directly or through other
	// leftover steps.
	Cyclic
	// Blocked means the step only waits on other leftover steps.
	Blocked
)

func (r Reason) String() string {
	switch r {
	case Missing:
		return "missing"
	case Cyclic:
		return "cyclic"
	case Blocked:
		return "blocked"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Finding explains one leftover step.
type Finding struct {
	// Step is the index of the step in the scheduled slice.
	Step   int
	Reason Reason
	// Variables are the inputs behind Reason: the unproduced ones for
	// Missing, otherwise the ones still waiting on leftover steps.
	Variables []string
	// WaitsOn lists the leftover steps that produce this step's inputs.
	WaitsOn []int
	// Blocks lists the leftover steps that read this step's outputs.
	Blocks []int
}

func (f Finding) String() string {
	return fmt.Sprintf("step %d is %s (%s)", f.Step, f.Reason, strings.Join(f.Variables, ", "))
}

// Diagnose explains every step in plan.Unsolved, in ascending step order. It
// is a reporting aid only and never changes the plan.
func Diagnose(steps []step.Step, plan *scheduler.Plan, params map[string]float64) []Finding {
	if plan == nil || len(plan.Unsolved) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(params)+len(plan.Solved))
	for name := range params {
		known[strings.ToLower(name)] = struct{}{}
	}
	for _, name := range plan.Solved {
		known[name] = struct{}{}
	}

	g := New()
	producers := make(map[string][]int)
	for _, id := range plan.Unsolved {
		g.AddNode(id)
		for _, out := range steps[id].Outputs() {
			producers[out] = append(producers[out], id)
		}
	}

	missing := make(map[int][]string)
	waiting := make(map[int][]string)
	selfRef := make(map[int]bool)
	for _, id := range plan.Unsolved {
		for _, in := range steps[id].Inputs() {
			if _, ok := known[in]; ok {
				continue
			}
			prods := producers[in]
			if len(prods) == 0 {
				missing[id] = append(missing[id], in)
				continue
			}
			waiting[id] = append(waiting[id], in)
			for _, p := range prods {
				if p == id {
					selfRef[id] = true
					continue
				}
				// Both ends are leftover nodes and distinct, so this cannot fail.
				_ = g.AddEdge(p, id)
			}
		}
	}

	inCycle := make(map[int]bool)
	for _, component := range g.Cycles() {
		for _, id := range component {
			inCycle[id] = true
		}
	}

	findings := make([]Finding, 0, len(plan.Unsolved))
	for _, id := range plan.Unsolved {
		deps, _ := g.Dependencies(id)
		blocks, _ := g.Dependents(id)
		f := Finding{Step: id, WaitsOn: deps, Blocks: blocks}
		switch {
		case len(missing[id]) > 0:
			f.Reason, f.Variables = Missing, missing[id]
		case inCycle[id] || selfRef[id]:
			f.Reason, f.Variables = Cyclic, waiting[id]
		default:
			f.Reason, f.Variables = Blocked, waiting[id]
		}
		findings = append(findings, f)
	}
	return findings
}

// Package solution owns a system of steps and its seed parameters, orders the
// steps, and drives the evaluation pass over a shared environment.
package solution

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/stepsolver/internal/builtins"
	"github.com/specialistvlad/stepsolver/internal/ctxlog"
	"github.com/specialistvlad/stepsolver/internal/dag"
	"github.com/specialistvlad/stepsolver/internal/expr"
	"github.com/specialistvlad/stepsolver/internal/scheduler"
	"github.com/specialistvlad/stepsolver/internal/step"
	"github.com/specialistvlad/stepsolver/internal/validate"
)

// Engine is the expression engine a Solution evaluates with.
type Engine interface {
	step.Evaluator
	validate.FunctionTable
}

// Solution holds the unordered steps, the parameters, and the plan computed
// for them. The plan is discarded whenever steps or parameters change.
type Solution struct {
	steps  []step.Step
	params map[string]float64
	engine Engine
	plan   *scheduler.Plan
}

// Option configures a Solution.
type Option func(*Solution)

// WithEngine makes the solution evaluate with engine instead of a fresh one
// holding the built-in functions.
func WithEngine(engine Engine) Option {
	return func(s *Solution) {
		s.engine = engine
	}
}

// New creates a solution over copies of steps and params. Parameter names
// that differ only in case collapse into one; they are bound in sorted order
// and the last one wins, as if each were passed to SetParameter.
func New(steps []step.Step, params map[string]float64, opts ...Option) *Solution {
	s := &Solution{
		steps:  append([]step.Step(nil), steps...),
		params: make(map[string]float64, len(params)),
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.bind(name, params[name])
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = builtins.NewEngine()
	}
	return s
}

// AddSteps appends steps to the unordered baseline.
func (s *Solution) AddSteps(steps ...step.Step) {
	s.steps = append(s.steps, steps...)
	s.plan = nil
}

// SetParameter binds a seed value, replacing any parameter of the same name.
func (s *Solution) SetParameter(name string, v float64) {
	s.bind(name, v)
	s.plan = nil
}

func (s *Solution) bind(name string, v float64) {
	for existing := range s.params {
		if strings.EqualFold(existing, name) {
			delete(s.params, existing)
		}
	}
	s.params[name] = v
}

// Steps returns the unordered baseline.
func (s *Solution) Steps() []step.Step {
	return s.steps
}

// Parameters returns a copy of the seed parameters.
func (s *Solution) Parameters() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for name, v := range s.params {
		out[name] = v
	}
	return out
}

// Order runs the scheduler and keeps its plan.
func (s *Solution) Order(ctx context.Context) *scheduler.Plan {
	logger := ctxlog.FromContext(ctx)
	s.plan = scheduler.Order(ctx, s.steps, s.params)
	if !s.plan.Complete() {
		logger.Warn("Some steps can never be scheduled.", "unsolved", len(s.plan.Unsolved))
	}
	return s.plan
}

// Plan returns the current plan, or nil if the solution has not been ordered
// since its last change.
func (s *Solution) Plan() *scheduler.Plan {
	return s.plan
}

// Ordered returns the scheduled steps in evaluation order.
func (s *Solution) Ordered() []step.Step {
	if s.plan == nil {
		return nil
	}
	return s.pick(s.plan.Order)
}

// Unsolved returns the steps left out of the order.
func (s *Solution) Unsolved() []step.Step {
	if s.plan == nil {
		return nil
	}
	return s.pick(s.plan.Unsolved)
}

// SolvedVariables returns the variables the ordered steps produce, in the
// order they are first solved.
func (s *Solution) SolvedVariables() []string {
	if s.plan == nil {
		return nil
	}
	return s.plan.Solved
}

func (s *Solution) pick(ids []int) []step.Step {
	out := make([]step.Step, len(ids))
	for i, id := range ids {
		out[i] = s.steps[id]
	}
	return out
}

// Diagnose explains every unsolved step of the current plan.
func (s *Solution) Diagnose() []dag.Finding {
	return dag.Diagnose(s.steps, s.plan, s.params)
}

// Validate runs every validation pass over the steps and parameters.
func (s *Solution) Validate(ctx context.Context) *validate.Report {
	logger := ctxlog.FromContext(ctx)
	report := validate.Run(s.steps, s.params, s.engine)
	for _, issue := range report.Issues {
		logger.Warn("Validation issue.", "pass", issue.Pass, "severity", issue.Severity.String(), "step", issue.Step, "error", issue.Err)
	}
	return report
}

// Result is the outcome of an evaluation pass.
type Result struct {
	// Environment holds the parameters and every solved variable.
	Environment *expr.Environment
	// Redefined lists, in evaluation order, variables that a step overwrote.
	Redefined []string
	// Unsolved are the steps that were not evaluated. When it is not empty
	// the system is unsolvable and no value in Environment should be trusted.
	Unsolved []step.Step
}

// Complete reports whether every step was evaluated.
func (r *Result) Complete() bool {
	return len(r.Unsolved) == 0
}

// Evaluate seeds an environment from the parameters and solves every ordered
// step in turn, ordering the solution first if needed. It stops at the first
// step that fails.
func (s *Solution) Evaluate(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if s.plan == nil {
		s.Order(ctx)
	}

	result := &Result{
		Environment: expr.NewEnvironment(s.params),
		Unsolved:    s.Unsolved(),
	}

	for _, id := range s.plan.Order {
		st := s.steps[id]
		redefined, err := st.Solve(s.engine, result.Environment)
		if err != nil {
			return result, fmt.Errorf("step %d (%s): %w", id, st, err)
		}
		if redefined {
			logger.Warn("Step redefined a variable.", "step", id, "outputs", st.Outputs())
			result.Redefined = append(result.Redefined, st.Outputs()...)
		}
		logger.Debug("Step solved.", "step", id, "equation", st.String())
	}

	logger.Debug("Evaluation pass finished.", "variables", result.Environment.Len(), "unsolved", len(result.Unsolved))
	return result, nil
}

// TranslateVariables renames variables in every step. It returns false if
// any step kept an untranslated variable. The steps are translated as copies
// and replaced together, so if any step fails to translate none of them
// change.
func (s *Solution) TranslateVariables(ctx context.Context, rename map[string]string) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	if len(rename) == 0 {
		return false, &step.ArgumentError{Arg: "rename", Reason: "empty rename map"}
	}

	translated := make([]step.Step, len(s.steps))
	complete := true
	for id, st := range s.steps {
		c := st.Clone()
		ok, err := c.TranslateVariables(rename)
		if err != nil {
			return false, fmt.Errorf("step %d (%s): %w", id, st, err)
		}
		if !ok {
			logger.Warn("Step was only partially translated.", "step", id, "equation", c.String())
			complete = false
		}
		translated[id] = c
	}

	s.steps = translated
	s.plan = nil
	return complete, nil
}

// CollisionError reports a parameter rename that would merge two parameters
// into one name.
type CollisionError struct {
	Name    string
	Sources []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("parameters %s would all be renamed to %q", strings.Join(e.Sources, ", "), e.Name)
}

// TranslateParameters renames parameter keys through rename, looked up by
// lowercase name, preserving every value. It returns whether every parameter
// was renamed. If two parameters would end up under the same name the
// parameters are left untouched and a *CollisionError is returned.
func (s *Solution) TranslateParameters(ctx context.Context, rename map[string]string) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	if len(rename) == 0 {
		return false, &step.ArgumentError{Arg: "rename", Reason: "empty rename map"}
	}

	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}
	sort.Strings(names)

	renamed := make(map[string]float64, len(s.params))
	sources := make(map[string][]string, len(s.params))
	count := 0
	for _, name := range names {
		target := name
		if to, ok := rename[strings.ToLower(name)]; ok {
			target = to
			count++
		}
		key := strings.ToLower(target)
		sources[key] = append(sources[key], name)
		renamed[target] = s.params[name]
	}

	for _, name := range names {
		target := name
		if to, ok := rename[strings.ToLower(name)]; ok {
			target = to
		}
		if src := sources[strings.ToLower(target)]; len(src) > 1 {
			return false, &CollisionError{Name: target, Sources: src}
		}
	}

	s.params = renamed
	s.plan = nil
	complete := count == len(names)
	if !complete {
		logger.Warn("Parameters were only partially translated.", "renamed", count, "parameters", len(names))
	}
	return complete, nil
}

package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stepsolver/internal/ctxlog"
	"github.com/specialistvlad/stepsolver/internal/dag"
	"github.com/specialistvlad/stepsolver/internal/solution"
)

// UnsolvableError is returned when some steps can never be evaluated, either
// because a variable is never produced or because of a circular dependency.
type UnsolvableError struct {
	Findings []dag.Finding
}

func (e *UnsolvableError) Error() string {
	return fmt.Sprintf("system is unsolvable: %d step(s) can never be evaluated", len(e.Findings))
}

// Run validates, orders and evaluates the system, then writes the solved
// variables. Nothing but the unsolved steps is written when the system is
// unsolvable.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	s, err := a.Solution(ctx)
	if err != nil {
		return err
	}
	if err := a.check(ctx, s); err != nil {
		return err
	}

	plan := s.Order(ctx)
	rep := a.newReport()
	if !plan.Complete() {
		findings := a.unsolved(s, rep)
		if err := a.write(rep); err != nil {
			return err
		}
		return &UnsolvableError{Findings: findings}
	}

	result, err := s.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	rep.Variables = result.Environment.Values()
	rep.Redefined = result.Redefined
	a.logger.Info("System solved.", "steps", len(s.Ordered()), "variables", result.Environment.Len())

	a.logger.Debug("App.Run method finished.")
	return a.write(rep)
}

// Plan orders the system and writes the evaluation order without evaluating.
func (a *App) Plan(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	s, err := a.Solution(ctx)
	if err != nil {
		return err
	}

	plan := s.Order(ctx)
	rep := a.newReport()
	for _, st := range s.Ordered() {
		rep.Order = append(rep.Order, st.String())
	}
	if plan.Complete() {
		return a.write(rep)
	}

	findings := a.unsolved(s, rep)
	if err := a.write(rep); err != nil {
		return err
	}
	return &UnsolvableError{Findings: findings}
}

// Validate runs the validation passes and writes every issue found.
func (a *App) Validate(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	s, err := a.Solution(ctx)
	if err != nil {
		return err
	}

	report := s.Validate(ctx)
	rep := a.newReport()
	for _, issue := range report.Issues {
		rep.Issues = append(rep.Issues, issue.Error())
	}
	if err := a.write(rep); err != nil {
		return err
	}
	return a.verdict(report.Err(!a.config.Strict))
}

// check validates s before ordering it. Only errors fail the run unless the
// config is strict.
func (a *App) check(ctx context.Context, s *solution.Solution) error {
	return a.verdict(s.Validate(ctx).Err(!a.config.Strict))
}

func (a *App) verdict(err error) error {
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// unsolved records the diagnosis of every unsolved step in rep.
func (a *App) unsolved(s *solution.Solution, rep *report) []dag.Finding {
	steps := s.Steps()
	findings := s.Diagnose()
	for _, f := range findings {
		a.logger.Warn("Step can never be evaluated.", "step", f.Step, "reason", f.Reason.String(), "variables", f.Variables, "waits_on", f.WaitsOn, "blocks", f.Blocks)
		rep.Unsolved = append(rep.Unsolved, unsolvedStep{
			Equation:  steps[f.Step].String(),
			Reason:    f.Reason.String(),
			Variables: f.Variables,
		})
	}
	return findings
}

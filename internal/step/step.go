// Package step defines the units a solution is built from. A Step declares the
// variables it needs, the variables it produces, and knows how to compute
// them into a shared environment.
package step

import (
	"fmt"

	"github.com/specialistvlad/stepsolver/internal/expr"
)

// Kind tags the concrete variety of a Step.
type Kind int

const (
	// KindEquation is an Equation: one output solved from an expression.
	KindEquation Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindEquation:
		return "equation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Evaluator computes the value of expression text against an environment.
// *expr.Engine satisfies it.
type Evaluator interface {
	Evaluate(text string, env *expr.Environment) (float64, error)
}

// Step is the capability set every unit of a solution exposes.
type Step interface {
	fmt.Stringer

	// Kind identifies the concrete variety of the step.
	Kind() Kind

	// Inputs returns the distinct, lowercased variables the step reads.
	Inputs() []string

	// Outputs returns the lowercased variables the step writes.
	Outputs() []string

	// Solve computes the step's outputs into env. It reports whether an
	// already bound variable was overwritten; that is not an error.
	Solve(ev Evaluator, env *expr.Environment) (redefined bool, err error)

	// TranslateVariables renames variables in place using a map keyed by
	// lowercase name. It returns false if any variable occurrence was left
	// untranslated.
	TranslateVariables(rename map[string]string) (bool, error)

	// Clone returns an independent copy that can be translated without
	// touching the receiver.
	Clone() Step
}

// Expressioner is implemented by steps that can hand their raw expression
// texts to validation passes.
type Expressioner interface {
	Expressions() []string
}

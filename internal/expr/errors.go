package expr

import "fmt"

// ParseError reports expression text that could not be read.
type ParseError struct {
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %q: %s", e.Text, e.Msg)
}

// EvaluationError reports a failure to evaluate an expression: an unknown
// variable or function, malformed syntax, or an arithmetic fault.
type EvaluationError struct {
	Text string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate %q: %v", e.Text, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

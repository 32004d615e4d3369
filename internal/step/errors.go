package step

import "fmt"

// ArgumentError reports an empty or malformed argument passed to a step
// operation.
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

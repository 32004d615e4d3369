package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertStepSolved checks the log output to confirm that the step with the
// given text was evaluated.
func AssertStepSolved(t *testing.T, result *HarnessResult, equation string) {
	t.Helper()

	expected := fmt.Sprintf("equation=%q", equation)
	require.True(t,
		strings.Contains(result.LogOutput, "msg=\"Step solved.\"") && strings.Contains(result.LogOutput, expected),
		"expected step %q to be solved, logs:\n%s", equation, result.LogOutput,
	)
}

// AssertLogged checks that msg was logged at least once.
func AssertLogged(t *testing.T, result *HarnessResult, msg string) {
	t.Helper()
	require.Contains(t, result.LogOutput, fmt.Sprintf("msg=%q", msg))
}

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalledFunctions(t *testing.T) {
	calls, err := CalledFunctions("Sqrt(a) + if(a > 0, logn(a, 2), sqrt(-a, 1)) * (b)")
	require.NoError(t, err)
	assert.Equal(t, []Call{
		{Name: "if", Args: 3},
		{Name: "logn", Args: 2},
		{Name: "sqrt", Args: 1},
		{Name: "sqrt", Args: 2},
	}, calls)

	calls, err = CalledFunctions("x^2")
	require.NoError(t, err)
	assert.Equal(t, []Call{{Name: "pow", Args: 2}}, calls)

	calls, err = CalledFunctions("a + b")
	require.NoError(t, err)
	assert.Empty(t, calls)

	_, err = CalledFunctions("a +")
	assert.Error(t, err)
}

package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment(t *testing.T) {
	env := NewEnvironment(map[string]float64{"Alpha": 1})

	v, ok := env.Get("ALPHA")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	assert.False(t, env.Set("beta", 2), "first write is not a redefinition")
	assert.True(t, env.Set("BETA", 3), "second write must report a redefinition")

	v, _ = env.Get("beta")
	assert.Equal(t, 3.0, v)
	assert.Equal(t, []string{"alpha", "beta"}, env.Names())
	assert.Equal(t, 2, env.Len())

	values := env.Values()
	values["gamma"] = 4
	assert.Equal(t, 2, env.Len())
}

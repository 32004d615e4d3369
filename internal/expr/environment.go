package expr

import (
	"sort"
	"strings"
)

// Environment is the live mapping from variable name to value consulted and
// updated while a system is evaluated. Names are case-insensitive.
type Environment struct {
	values map[string]float64
}

// NewEnvironment returns an environment seeded with the given values.
func NewEnvironment(seed map[string]float64) *Environment {
	env := &Environment{values: make(map[string]float64, len(seed))}
	for name, v := range seed {
		env.values[strings.ToLower(name)] = v
	}
	return env
}

// Set binds name to v. If name was already bound the value is overwritten
// and Set returns true.
func (e *Environment) Set(name string, v float64) (redefined bool) {
	key := strings.ToLower(name)
	_, redefined = e.values[key]
	e.values[key] = v
	return redefined
}

// Get returns the value bound to name.
func (e *Environment) Get(name string) (float64, bool) {
	v, ok := e.values[strings.ToLower(name)]
	return v, ok
}

// Len returns the number of bound variables.
func (e *Environment) Len() int {
	return len(e.values)
}

// Names returns all bound names, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the bindings.
func (e *Environment) Values() map[string]float64 {
	out := make(map[string]float64, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Default is the stepper used when no integrator is named.
const Default = "euler"

var registry = map[string]func() dynamo.Stepper{
	"euler":    func() dynamo.Stepper { return NewSemiImplicitEuler() },
	"explicit": func() dynamo.Stepper { return NewEuler() },
	"rk4":      func() dynamo.Stepper { return NewRK4() },
	"leapfrog": func() dynamo.Stepper { return NewLeapfrog() },
}

// Get returns a fresh stepper for name. An empty name selects [Default].
func Get(name string) (dynamo.Stepper, error) {
	if name == "" {
		name = Default
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q (available: %v): %w", name, Names(), dynamo.ErrUnknownStepper)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

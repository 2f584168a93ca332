package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"gentle": preset(func(c *Config) {
		c.Params.Damping = 0.1
		c.InitState = InitStateConfig{Theta: 0.4, Omega: 0}
	}),
	"large": preset(func(c *Config) {
		c.Params.Damping = 0.05
		c.InitState = InitStateConfig{Theta: 2.8, Omega: 0}
	}),
	"spinning": preset(func(c *Config) {
		c.Params.Damping = 0.15
		c.Params.Length = 3
		c.InitState = InitStateConfig{Theta: 0, Omega: 3}
	}),
	"overdamped": preset(func(c *Config) {
		c.Params.Damping = 6
		c.Params.Length = 2
		c.InitState = InitStateConfig{Theta: 1.5, Omega: 0}
	}),
	"frictionless": preset(func(c *Config) {
		c.Params.Damping = 0
		c.InitState = InitStateConfig{Theta: 1, Omega: 0}
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

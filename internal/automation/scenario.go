// Package automation runs scripted sequences of headless pendulum runs and
// parameter sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/experiment"
	"github.com/san-kum/pendulab/internal/export"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run in a scenario. Zero fields inherit from the base
// configuration, or from Preset when one is named.
type Step struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Ticks      int                `yaml:"ticks"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

type StepResult struct {
	Step Step
	*experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	for i := range sc.Steps {
		if sc.Steps[i].Name == "" {
			sc.Steps[i].Name = fmt.Sprintf("step-%d", i+1)
		}
	}
	return &sc, nil
}

// StepConfig resolves the configuration a step runs with.
func StepConfig(base *config.Config, step Step) (*config.Config, error) {
	var cfg config.Config
	if step.Preset != "" {
		p := config.GetPreset(step.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", step.Preset, config.ListPresets())
		}
		cfg = *p
		cfg.Display = base.Display
	} else {
		cfg = *base
	}

	if step.Integrator != "" {
		cfg.Integrator = step.Integrator
	}
	if step.Ticks > 0 {
		cfg.Ticks = step.Ticks
	}
	for name, v := range step.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RunScenario executes all steps in order. Results of the steps that
// completed are returned together with the first error.
func RunScenario(ctx context.Context, sc *Scenario, base *config.Config, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = slog.Default()
	}
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		log.Info("running step", "scenario", sc.Name, "step", step.Name, "n", i+1, "of", len(sc.Steps))

		cfg, err := StepConfig(base, step)
		if err != nil {
			return results, fmt.Errorf("step %s: %w", step.Name, err)
		}

		opts := []experiment.Option{experiment.WithLogger(log)}
		if step.SaveAs == "" {
			opts = append(opts, experiment.WithoutFrame())
		}
		exp, err := experiment.New(cfg, opts...)
		if err != nil {
			return results, fmt.Errorf("step %s setup: %w", step.Name, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %s run: %w", step.Name, err)
		}

		if step.SaveAs != "" {
			if err := saveFrame(step.SaveAs, res.Frame); err != nil {
				return results, fmt.Errorf("step %s: %w", step.Name, err)
			}
			log.Info("saved frame", "step", step.Name, "path", step.SaveAs)
		}
		results = append(results, StepResult{Step: step, Result: res})
	}

	return results, nil
}

func saveFrame(path string, frame *export.SVG) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := frame.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

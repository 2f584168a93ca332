package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/dynamo"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	t.Cleanup(func() {
		preset, configFile, logLevel = "", "", config.DefaultLogLevel
		svgOut, csvOut, jsonOut, plot = "", "", "", false
		sweepParam, sweepFrom, sweepTo, sweepSteps, sweepObjective = "damping", 0, 2, 9, "energy_drift"
	})

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "")
	addSimFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestResolveConfig_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "dt: 0.01\nlog_level: debug\nparams:\n  damping: 0.9\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd(t, "--damping=0.3")
	preset, configFile = "large", path

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.Damping != 0.3 {
		t.Errorf("expected flag damping 0.3, got %v", cfg.Params.Damping)
	}
	if cfg.Dt != 0.01 {
		t.Errorf("expected file dt 0.01, got %v", cfg.Dt)
	}
	if cfg.InitState.Theta != config.GetPreset("large").InitState.Theta {
		t.Errorf("expected preset theta, got %v", cfg.InitState.Theta)
	}
	if logLevel != "debug" {
		t.Errorf("expected log level from file, got %s", logLevel)
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	cmd := newTestCmd(t)
	preset = "nope"
	if _, err := resolveConfig(cmd); err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("expected unknown preset error, got %v", err)
	}

	cmd = newTestCmd(t, "--length=-1")
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected validation error")
	}

	cmd = newTestCmd(t, "--gravity=0")
	if _, err := resolveConfig(cmd); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected zero gravity to be rejected, got %v", err)
	}
}

func TestRunHeadless_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cmd := newTestCmd(t, "--ticks=50")
	svgOut = filepath.Join(dir, "frame.svg")
	csvOut = filepath.Join(dir, "run.csv")
	logLevel = "error"

	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := runHeadless(cmd, nil); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "ticks: 50") {
		t.Errorf("expected summary, got:\n%s", out.String())
	}
	svg, err := os.ReadFile(svgOut)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("expected svg document")
	}
	csv, err := os.ReadFile(csvOut)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(csv), "\n"); lines != 51 {
		t.Errorf("expected header plus 50 rows, got %d lines", lines)
	}
}

func TestRunSweep_PrintsTable(t *testing.T) {
	cmd := newTestCmd(t, "--ticks=100")
	logLevel = "error"
	sweepParam, sweepFrom, sweepTo, sweepSteps, sweepObjective = "length", 2, 6, 3, "energy"

	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := runSweep(cmd, nil); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"LENGTH", "ENERGY", "2.0000", "6.0000", "best length="} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRunScenario_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := "name: pair\nsteps:\n  - name: first\n    ticks: 20\n  - name: second\n    preset: gentle\n    ticks: 30\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cmd := newTestCmd(t)
	logLevel = "error"

	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := runScenario(cmd, []string{path}); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"scenario pair", "first", "second"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("logging.dir", t.TempDir())

	// Flag variables persist across Execute calls; restore defaults so
	// earlier tests don't leak into later ones.
	decomposeOutput = "text"
	decomposeMock = true
	decomposeAPIKey = ""
	servePort = 0
	serveEnv = "dev"

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestDecomposeCommandTextOutput(t *testing.T) {
	out, err := execute(t, "decompose", "a simple task for the demo")
	if err != nil {
		t.Fatalf("decompose failed: %v", err)
	}

	for _, want := range []string{"Goal:", "step1", "step2", "step1 -> step2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDecomposeCommandJSONOutput(t *testing.T) {
	out, err := execute(t, "decompose", "-o", "json", "a simple task for the demo")
	if err != nil {
		t.Fatalf("decompose failed: %v", err)
	}

	var result struct {
		Goal       string `json:"goal"`
		GraphNodes []struct {
			ID string `json:"id"`
		} `json:"graph_nodes"`
		GraphEdges   [][2]string    `json:"graph_edges"`
		StepsDetails map[string]any `json:"steps_details"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("json output is not valid JSON: %v\n%s", err, out)
	}

	if result.Goal != "a simple task for the demo" {
		t.Errorf("goal = %q", result.Goal)
	}
	if len(result.GraphNodes) != 2 || len(result.GraphEdges) != 1 {
		t.Errorf("unexpected graph shape: %+v", result)
	}
	if _, ok := result.StepsDetails["step1"]; !ok {
		t.Error("steps_details missing step1")
	}
}

func TestDecomposeCommandInvalidFormat(t *testing.T) {
	_, err := execute(t, "decompose", "-o", "yaml", "some goal")
	if err == nil {
		t.Fatal("expected error for invalid output format")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("error should name the bad format, got %v", err)
	}
}

func TestDecomposeCommandInvalidPlanFails(t *testing.T) {
	// The mock returns a deliberate cycle for this phrasing.
	_, err := execute(t, "decompose", "a plan with a circular dependency")
	if err == nil {
		t.Fatal("expected error for cyclic plan")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should mention the cycle, got %v", err)
	}
}

func TestServeCommandInvalidEnv(t *testing.T) {
	_, err := execute(t, "serve", "--env", "staging")
	if err == nil {
		t.Fatal("expected error for invalid env")
	}
	if !strings.Contains(err.Error(), "staging") {
		t.Errorf("error should name the bad env, got %v", err)
	}
}

package decompose

import (
	"strings"
	"testing"
)

func TestBuildPromptContents(t *testing.T) {
	prompt := BuildPrompt("Build a todo application")

	for _, want := range []string{
		`"steps"`,
		`"id"`,
		`"description"`,
		`"dependencies"`,
		`"instructions"`,
		"single JSON object",
		"acyclic",
		"granularity",
		`"Build a todo application"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	a := BuildPrompt("same goal")
	b := BuildPrompt("same goal")
	if a != b {
		t.Error("BuildPrompt should be deterministic")
	}
}

func TestBuildPromptEmptyGoalAccepted(t *testing.T) {
	prompt := BuildPrompt("")
	if prompt == "" {
		t.Error("empty goal should still yield a prompt")
	}
	if !strings.Contains(prompt, `""`) {
		t.Error("empty goal should be embedded verbatim")
	}
}

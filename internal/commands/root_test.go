// internal/commands/root_test.go
package palu

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	rootCmd.SetArgs([]string{"nonexistent"})
	_, err := rootCmd.ExecuteC()

	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"palu\""
	if !strings.Contains(b.String(), expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, b.String())
	}
}

// TestSubcommandsRegistered verifies the full command surface is wired onto the root.
func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"login", "logout", "register", "whoami",
		"predict", "batch", "compare", "ab",
		"history", "stats", "models", "heatmap",
	}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered on root", name)
		}
	}
}

func TestModelOrDefault(t *testing.T) {
	prev := currentConfig
	t.Cleanup(func() { currentConfig = prev })

	currentConfig = nil
	if got := modelOrDefault("resnet50"); got != "resnet50" {
		t.Errorf("explicit flag should win, got %q", got)
	}
	if got := modelOrDefault(""); got != "" {
		t.Errorf("no config should yield empty model, got %q", got)
	}
}

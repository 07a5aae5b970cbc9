package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommandSubcommands(t *testing.T) {
	rootCmd := createRootCommand()
	want := []string{"build", "validate", "config", "version"}
	for _, name := range want {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spdx-builder.yaml")
	cmd := createRootCommand()
	cmd.SetArgs([]string{"config", "init", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading generated config: %v", err)
	}
	if len(data) == 0 {
		t.Error("generated config is empty")
	}
}

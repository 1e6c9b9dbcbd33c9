package main

import (
	"strings"
	"testing"
)

func TestCommandTree(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "serve" {
			found = true
			if c.Flags().Lookup("addr") == nil {
				t.Fatalf("serve is missing --addr")
			}
		}
	}
	if !found {
		t.Fatalf("expected serve subcommand")
	}
	for _, name := range []string{"debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("missing persistent flag %s", name)
		}
	}
	for _, name := range []string{"theme", "drag-cells"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Fatalf("missing flag %s", name)
		}
	}
}

func TestInvalidConfigFailsBeforeRunning(t *testing.T) {
	t.Setenv("DRAG_ACTIVATION_CELLS", "lots")
	rootCmd.SetArgs([]string{"serve"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestUnknownThemeFlagFails(t *testing.T) {
	for _, k := range []string{"DEBUG", "LOG_LEVEL", "LOG_FORMAT", "TASKBOARD_THEME", "DRAG_ACTIVATION_CELLS", "DEDUPER_TTL"} {
		t.Setenv(k, "")
	}
	rootCmd.SetArgs([]string{"--theme", "purple"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagTheme = ""
	})
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown theme") {
		t.Fatalf("expected theme error, got %v", err)
	}
}

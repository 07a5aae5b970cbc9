package security

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestValidateStringBasics(t *testing.T) {
	lim := DefaultLimits()
	if err := ValidateString("ok", "hello", lim); err != nil {
		t.Fatal(err)
	}
	if err := ValidateString("nul", "a\x00b", lim); err == nil {
		t.Error("expected error for NUL byte")
	}
	if err := ValidateString("bad-utf8", string([]byte{0xff, 0xfe}), lim); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
	if err := ValidateString("control", "a\x01b", lim); err == nil {
		t.Error("expected error for control rune")
	}
	if err := ValidateString("long", strings.Repeat("x", lim.MaxString+1), lim); err == nil {
		t.Error("expected error for over-long string")
	}
	if err := ValidateString("empty", "", lim); err != nil {
		t.Errorf("empty string should pass: %v", err)
	}
}

func TestAttachRecursiveRejectsBadFlag(t *testing.T) {
	var name string
	cmd := &cobra.Command{
		Use:  "build",
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	cmd.Flags().StringVar(&name, "package-name", "", "")

	root := &cobra.Command{Use: "spdx-builder"}
	root.AddCommand(cmd)
	AttachRecursive(root, DefaultLimits())

	root.SetArgs([]string{"build", "--package-name", "bad\x00name"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for flag with NUL byte")
	}
}

func TestAttachRecursiveAllowsCleanInput(t *testing.T) {
	ran := false
	cmd := &cobra.Command{
		Use:  "build",
		Args: cobra.ArbitraryArgs,
		RunE: func(*cobra.Command, []string) error { ran = true; return nil },
	}

	root := &cobra.Command{Use: "spdx-builder"}
	root.AddCommand(cmd)
	AttachRecursive(root, DefaultLimits())

	root.SetArgs([]string{"build", "sources.txt"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("command did not run")
	}
}

package apperr

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(ParseError, "environment file is invalid JSON", errors.New("unexpected EOF"))
	wrapped := fmt.Errorf("load staging: %w", base)
	if got := KindOf(wrapped); got != ParseError {
		t.Fatalf("expected parse kind, got %q", got)
	}
	if !Is(wrapped, ParseError) {
		t.Fatal("expected Is to match wrapped kind")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("expected empty kind for unclassified error")
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(CatalogError, "servers directory not found", errors.New("stat /x: no such file"))
	if got := err.Error(); got != "servers directory not found: stat /x: no such file" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := New(LaunchError, "", nil).Error(); got != "operation failed" {
		t.Fatalf("unexpected fallback message %q", got)
	}
}

func TestDebugMessage(t *testing.T) {
	err := WithDetail(ConfigError, "config is invalid", "path=/tmp/config.toml", nil)
	if got := DebugMessage(err); !strings.HasPrefix(got, "path=/tmp/config.toml") {
		t.Fatalf("expected debug detail, got %q", got)
	}
}

func TestRedactMessage(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	msg := home + "/.config/server/config.toml not readable"
	got := RedactMessage(msg)
	if got != "~/.config/server/config.toml not readable" {
		t.Fatalf("expected home redacted, got %q", got)
	}
	if UserMessage(errors.New(msg), false) != msg {
		t.Fatal("expected unredacted message when redact is false")
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatal("nil error should exit 0")
	}
	if ExitCode(New(SetupRequired, "created template", nil)) != 0 {
		t.Fatal("setup should exit 0")
	}
	if ExitCode(New(SelectionError, "cancelled", nil)) != 1 {
		t.Fatal("selection failure should exit 1")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runErr := exec.Command("sh", "-c", "exit 7").Run()
	if got := ExitCode(fmt.Errorf("ssh: %w", runErr)); got != 7 {
		t.Fatalf("expected child exit code 7, got %d", got)
	}
}

package sshclient

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/treykane/envssh/internal/apperr"
	"github.com/treykane/envssh/internal/model"
)

func TestConnectArgs(t *testing.T) {
	c := New()
	args := c.ConnectArgs(model.Target{User: "u2", Host: "h2", Port: 2222})
	want := []string{"u2@h2", "-p", "2222"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args mismatch\nwant=%v\n got=%v", want, args)
	}
	if got := c.CommandLine(model.Target{User: "u", Host: "h1", Port: 22}); got != "ssh u@h1 -p 22" {
		t.Fatalf("unexpected command line %q", got)
	}
}

// fakeSSH writes a script that echoes its arguments and exits with code.
func fakeSSH(t *testing.T, code string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "ssh")
	script := "#!/bin/sh\necho \"$@\"\nexit " + code + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunInteractive_AttachesStreams(t *testing.T) {
	var out bytes.Buffer
	c := &Client{Binary: fakeSSH(t, "0"), Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out}
	if err := c.RunInteractive(context.Background(), model.Target{User: "u", Host: "h1", Port: 22}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "u@h1 -p 22" {
		t.Fatalf("unexpected argv echoed: %q", out.String())
	}
}

func TestRunInteractive_PropagatesExitStatus(t *testing.T) {
	c := &Client{Binary: fakeSSH(t, "255"), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := c.RunInteractive(context.Background(), model.Target{User: "u", Host: "h", Port: 22})
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
	if apperr.ExitCode(err) != 255 {
		t.Fatalf("expected exit status 255, got %d", apperr.ExitCode(err))
	}
}

func TestRunInteractive_LaunchFailure(t *testing.T) {
	c := &Client{Binary: filepath.Join(t.TempDir(), "missing-ssh")}
	err := c.RunInteractive(context.Background(), model.Target{User: "u", Host: "h", Port: 22})
	if !apperr.Is(err, apperr.LaunchError) {
		t.Fatalf("expected launch error, got %v", err)
	}
}

// Package sshclient launches interactive sessions through the system ssh
// binary.
//
// This package does NOT implement the SSH protocol. It shells out to "ssh",
// so the user's keys, agent and ~/.ssh/config apply unchanged.
//
// Arguments are passed through exec.Command's argv, never a shell, so user
// and host strings from environment files reach ssh verbatim.
package sshclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/treykane/envssh/internal/apperr"
	"github.com/treykane/envssh/internal/model"
)

// Launcher opens an interactive session to a resolved target and blocks
// until it ends.
type Launcher interface {
	RunInteractive(ctx context.Context, t model.Target) error
}

// Client manages SSH operations by creating and launching SSH processes.
//
// The zero value is not useful; use New() to create a Client instance.
type Client struct {
	Binary string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a client bound to the process's standard streams.
func New() *Client {
	return &Client{Binary: "ssh", Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// EnsureSSHBinary checks that the "ssh" binary is available on the system PATH.
func EnsureSSHBinary() error {
	_, err := exec.LookPath("ssh")
	if err != nil {
		return fmt.Errorf("ssh binary not found in PATH")
	}
	return nil
}

// ConnectArgs returns the ssh arguments for t: "user@host -p port".
func (c *Client) ConnectArgs(t model.Target) []string {
	return []string{t.Destination(), "-p", t.PortString()}
}

// CommandLine renders the invocation for display.
func (c *Client) CommandLine(t model.Target) string {
	return fmt.Sprintf("%s %s -p %s", c.binary(), t.Destination(), t.PortString())
}

// ConnectCommand creates an exec.Cmd for an interactive session to t,
// attached to the client's streams. The process is not started.
func (c *Client) ConnectCommand(ctx context.Context, t model.Target) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.binary(), c.ConnectArgs(t)...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd
}

// RunInteractive starts ssh and waits for the session to end.
//
// Failing to start the process is an apperr.LaunchError. A session that
// ends with a non-zero status returns the *exec.ExitError wrapped, so the
// caller can pass the status on as its own.
func (c *Client) RunInteractive(ctx context.Context, t model.Target) error {
	cmd := c.ConnectCommand(ctx, t)
	if err := cmd.Start(); err != nil {
		return apperr.New(apperr.LaunchError, "failed to execute ssh command", err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("ssh session ended: %w", err)
		}
		return apperr.New(apperr.LaunchError, "ssh command failed", err)
	}
	return nil
}

func (c *Client) binary() string {
	if c.Binary == "" {
		return "ssh"
	}
	return c.Binary
}

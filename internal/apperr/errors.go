// Package apperr classifies the failures that end an envssh run.
//
// Every stage of the pipeline reports failure as an *Error carrying a Kind,
// a short user-safe message, and optional debug detail for logs. No stage
// retries; the CLI prints UserMessage and exits with ExitCode.
package apperr

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Kind names the stage that failed.
type Kind string

const (
	// SetupRequired means the config file was absent and a template has just
	// been written. It ends the run successfully.
	SetupRequired  Kind = "setup-required"
	ConfigError    Kind = "config"
	CatalogError   Kind = "catalog"
	ParseError     Kind = "parse"
	SelectionError Kind = "selection"
	LaunchError    Kind = "launch"
)

// Error separates a user-safe message from verbose debug details.
type Error struct {
	Kind        Kind
	UserSafe    string
	DebugDetail string
	Err         error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.UserSafe)
	if msg == "" {
		msg = "operation failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error. err may be nil.
func New(kind Kind, userSafe string, err error) error {
	return &Error{Kind: kind, UserSafe: userSafe, Err: err}
}

// WithDetail creates a classified error with extra text that is only logged.
func WithDetail(kind Kind, userSafe, debugDetail string, err error) error {
	return &Error{Kind: kind, UserSafe: userSafe, DebugDetail: debugDetail, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns a message safe to show on the terminal.
func UserMessage(err error, redact bool) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if redact {
		return RedactMessage(msg)
	}
	return msg
}

// DebugMessage returns detailed error text for logs.
func DebugMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) && strings.TrimSpace(ae.DebugDetail) != "" {
		return ae.DebugDetail + ": " + err.Error()
	}
	return err.Error()
}

// RedactMessage replaces the user's home directory with "~" in user-visible text.
func RedactMessage(msg string) string {
	if msg == "" {
		return msg
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" && home != "/" {
		return strings.ReplaceAll(msg, home, "~")
	}
	return msg
}

// ExitCode maps an error ending the run to a process exit status.
// A launched ssh that exits non-zero hands its own status through.
func ExitCode(err error) int {
	if err == nil || Is(err, SetupRequired) {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}

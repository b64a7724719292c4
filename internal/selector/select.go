package selector

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/treykane/envssh/internal/apperr"
	"golang.org/x/term"
)

// Selector asks the operator to pick one item.
type Selector interface {
	SelectOne(p Prompt) (int, error)
}

// Terminal runs prompts on a real terminal. The zero value reads os.Stdin
// and draws on os.Stderr so stdout stays free for the connection line.
type Terminal struct {
	In  *os.File
	Out *os.File
}

// SelectOne runs p and returns the index of the confirmed item.
// An empty item list, a non-terminal input, or a cancelled prompt is an
// apperr.SelectionError.
func (t Terminal) SelectOne(p Prompt) (int, error) {
	if len(p.Items) == 0 {
		return -1, apperr.New(apperr.SelectionError, fmt.Sprintf("%s: nothing to choose from", p.Label), nil)
	}
	in, out := t.In, t.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	if !term.IsTerminal(int(in.Fd())) {
		return -1, apperr.New(apperr.SelectionError, p.Label+": an interactive terminal is required", nil)
	}
	return Run(p, tea.WithInput(in), tea.WithOutput(out))
}

// Run drives the prompt to completion with the given program options.
func Run(p Prompt, opts ...tea.ProgramOption) (int, error) {
	if len(p.Items) == 0 {
		return -1, apperr.New(apperr.SelectionError, fmt.Sprintf("%s: nothing to choose from", p.Label), nil)
	}
	final, err := tea.NewProgram(NewModel(p), opts...).Run()
	if err != nil {
		return -1, apperr.New(apperr.SelectionError, p.Label+": prompt failed", err)
	}
	m, ok := final.(Model)
	if !ok {
		return -1, apperr.New(apperr.SelectionError, p.Label+": prompt failed", nil)
	}
	idx, ok := m.Result()
	if !ok {
		return -1, apperr.New(apperr.SelectionError, p.Label+": selection cancelled", nil)
	}
	return idx, nil
}

// Package selector implements the fuzzy single-choice prompt used for both
// the environment and the server picks.
package selector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Prompt describes one selection.
type Prompt struct {
	Label string
	Items []string
	// Default is the item under the cursor before anything is typed.
	Default int
	// PageSize caps the visible rows. Zero fits the terminal height.
	PageSize int
	// ClearScreen clears the terminal before the prompt is drawn.
	ClearScreen bool
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "ctrl+p", "shift+tab")),
		Down:    key.NewBinding(key.WithKeys("down", "ctrl+n", "tab")),
		Confirm: key.NewBinding(key.WithKeys("enter")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// match is one visible row: the index into Prompt.Items and the byte offsets
// of characters that matched the query.
type match struct {
	index   int
	matched []int
}

// Model is the bubbletea model behind SelectOne.
type Model struct {
	prompt    Prompt
	keys      keyMap
	input     textinput.Model
	matches   []match
	cursor    int
	offset    int
	height    int
	chosen    int
	done      bool
	cancelled bool
}

// NewModel returns a model showing every item with the cursor on p.Default.
func NewModel(p Prompt) Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "type to filter"
	in.Focus()

	m := Model{prompt: p, keys: defaultKeys(), input: in, chosen: -1}
	m.refilter()
	if p.Default > 0 && p.Default < len(m.matches) {
		m.cursor = p.Default
	}
	m.scroll()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.prompt.ClearScreen {
		return tea.Batch(tea.ClearScreen, textinput.Blink)
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			if len(m.matches) == 0 {
				return m, nil
			}
			m.chosen = m.matches[m.cursor].index
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(-1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.move(1)
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
		m.cursor = 0
		m.offset = 0
	}
	return m, cmd
}

// Result returns the chosen item index. ok is false until the operator
// confirms, and stays false after a cancel.
func (m Model) Result() (index int, ok bool) {
	if !m.done || m.cancelled || m.chosen < 0 {
		return -1, false
	}
	return m.chosen, true
}

// Cancelled reports whether the operator aborted the prompt.
func (m Model) Cancelled() bool { return m.cancelled }

func (m *Model) move(delta int) {
	n := len(m.matches)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	m.scroll()
}

func (m *Model) refilter() {
	q := m.input.Value()
	if q == "" {
		m.matches = make([]match, len(m.prompt.Items))
		for i := range m.prompt.Items {
			m.matches[i] = match{index: i}
		}
		return
	}
	results := fuzzy.Find(q, m.prompt.Items)
	m.matches = make([]match, len(results))
	for i, r := range results {
		m.matches[i] = match{index: r.Index, matched: r.MatchedIndexes}
	}
}

// pageSize is the number of rows that fit, bounded by the match count.
func (m Model) pageSize() int {
	size := m.prompt.PageSize
	if size <= 0 {
		// Prompt line plus position footer.
		size = m.height - 2
		if m.height <= 0 {
			size = len(m.matches)
		}
	}
	if size < 1 {
		size = 1
	}
	if size > len(m.matches) {
		size = len(m.matches)
	}
	return size
}

func (m *Model) scroll() {
	size := m.pageSize()
	if size == 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+size {
		m.offset = m.cursor - size + 1
	}
	if last := len(m.matches) - size; m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) View() string {
	if m.done {
		if m.cancelled {
			return ""
		}
		return fmt.Sprintf("%s %s · %s\n", successStyle.Render("✔"), labelStyle.Render(m.prompt.Label), m.prompt.Items[m.chosen])
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s › %s\n", cursorStyle.Render("?"), labelStyle.Render(m.prompt.Label), m.input.View()))
	if len(m.matches) == 0 {
		b.WriteString(dimStyle.Render("  (no matches)") + "\n")
		return b.String()
	}
	size := m.pageSize()
	for i := m.offset; i < m.offset+size; i++ {
		mt := m.matches[i]
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("❯ ")
		}
		b.WriteString(prefix + highlight(m.prompt.Items[mt.index], mt.matched) + "\n")
	}
	if size < len(m.matches) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.matches))) + "\n")
	}
	return b.String()
}

func highlight(item string, matched []int) string {
	if len(matched) == 0 {
		return item
	}
	set := make(map[int]struct{}, len(matched))
	for _, i := range matched {
		set[i] = struct{}{}
	}
	var b strings.Builder
	for i, r := range item {
		if _, ok := set[i]; ok {
			b.WriteString(matchStyle.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

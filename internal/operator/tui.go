package operator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Yes    key.Binding
	No     key.Binding
	Accept key.Binding
	Abort  key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"), key.WithHelp("←/→", "toggle")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
	Abort:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "abort")),
}

// --- selectModel: single choice from a list ---

type selectModel struct {
	title   string
	options []string
	cursor  int
	done    bool
	aborted bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Abort):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Accept):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(opt) + "\n")
		} else {
			b.WriteString("  " + opt + "\n")
		}
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s • %s • %s",
		keys.Down.Help().Key+"/"+keys.Up.Help().Key,
		keys.Accept.Help().Key+" "+keys.Accept.Help().Desc,
		keys.Abort.Help().Key+" "+keys.Abort.Help().Desc)) + "\n")
	return b.String()
}

// --- confirmModel: yes/no, defaulting to no ---

type confirmModel struct {
	title   string
	value   bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Abort):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Accept):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Yes):
		m.value = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.No):
		m.value = false
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Toggle):
		m.value = !m.value
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	yes := " Yes "
	no := " No "
	if m.value {
		yes = selectedStyle.Render(" Yes ")
	} else {
		no = selectedStyle.Render(" No ")
	}
	return fmt.Sprintf("%s %s / %s\n", titleStyle.Render(m.title), yes, no)
}

// TUI asks questions with bubbletea programs on a terminal.
type TUI struct {
	in  io.Reader
	out io.Writer
}

// NewTUI creates a terminal UI operator.
func NewTUI(in io.Reader, out io.Writer) *TUI {
	return &TUI{in: in, out: out}
}

// Select shows the options as a list navigated with the arrow keys.
func (t *TUI) Select(ctx context.Context, question string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %q", question)
	}

	result, err := t.run(ctx, selectModel{title: question, options: options})
	if err != nil {
		return "", err
	}
	rm := result.(selectModel)
	if rm.aborted || !rm.done {
		return "", ErrAborted
	}
	return rm.options[rm.cursor], nil
}

// Confirm shows a yes/no toggle.
func (t *TUI) Confirm(ctx context.Context, question string) (bool, error) {
	result, err := t.run(ctx, confirmModel{title: question})
	if err != nil {
		return false, err
	}
	rm := result.(confirmModel)
	if rm.aborted || !rm.done {
		return false, ErrAborted
	}
	return rm.value, nil
}

func (t *TUI) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	result, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, ErrAborted
		}
		return nil, fmt.Errorf("failed to run prompt: %w", err)
	}
	return result, nil
}

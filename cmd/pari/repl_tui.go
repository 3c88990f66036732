package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	exprStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxShown bounds the transcript drawn above the prompt.
const maxShown = 20

type replEntry struct {
	err    error
	expr   string
	result string
}

type evalResultMsg replEntry

type replModel struct {
	ctx      context.Context
	eval     evalFunc
	input    textinput.Model
	entries  []replEntry
	history  []string
	histIdx  int
	pending  bool
	quitting bool
}

func newReplModel(ctx context.Context, eval evalFunc) *replModel {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "GP expression"
	ti.Width = 72
	ti.Focus()
	return &replModel{ctx: ctx, eval: eval, input: ti}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if m.pending {
				return m, nil
			}
			expr := strings.TrimSpace(m.input.Value())
			if expr == "" {
				return m, nil
			}
			if isQuit(expr) {
				m.quitting = true
				return m, tea.Quit
			}
			m.history = append(m.history, expr)
			m.histIdx = len(m.history)
			m.input.Reset()
			m.pending = true
			return m, m.evaluate(expr)

		case "up":
			if m.histIdx > 0 {
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			} else {
				m.histIdx = len(m.history)
				m.input.Reset()
			}
			return m, nil
		}

	case evalResultMsg:
		m.entries = append(m.entries, replEntry(msg))
		m.pending = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) evaluate(expr string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.eval(m.ctx, expr)
		return evalResultMsg{expr: expr, result: res, err: err}
	}
}

func (m *replModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("PARI/GP"))
	b.WriteString("\n\n")

	shown := m.entries
	if len(shown) > maxShown {
		shown = shown[len(shown)-maxShown:]
	}
	for _, e := range shown {
		b.WriteString(exprStyle.Render("? " + e.expr))
		b.WriteString("\n")
		if e.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", e.err)))
		} else {
			b.WriteString(resultStyle.Render(e.result))
		}
		b.WriteString("\n\n")
	}

	if m.pending {
		b.WriteString(helpStyle.Render("evaluating..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter evaluate • ↑/↓ history • ctrl+d quit"))
	return b.String()
}

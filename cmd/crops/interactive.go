package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/crops/config"
	"github.com/wippyai/crops/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// listHeight is how many exports the picker shows at once.
const listHeight = 14

type consoleState int

const (
	stateSelectFunc consoleState = iota
	stateInputArgs
	stateShowResult
)

type consoleModel struct {
	err      error
	cfg      config.Config
	session  *session
	result   string
	history  []string
	exports  []schema.Export
	inputs   []textinput.Model
	selected int
	offset   int
	focusIdx int
	state    consoleState
}

type startedMsg struct {
	err     error
	session *session
}

type invokedMsg struct {
	err    error
	line   string
	result string
}

func newConsoleModel(cfg config.Config) *consoleModel {
	return &consoleModel{
		cfg:     cfg,
		exports: schema.Exports(),
		state:   stateSelectFunc,
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return m.start
}

func (m *consoleModel) start() tea.Msg {
	s, err := newSession(context.Background(), m.cfg)
	return startedMsg{err: err, session: s}
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.shutdown()
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				m.shutdown()
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
				if m.selected < m.offset {
					m.offset = m.selected
				}
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.exports)-1 {
				m.selected++
				if m.selected >= m.offset+listHeight {
					m.offset = m.selected - listHeight + 1
				}
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.invoke
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.invoke

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session

	case invokedMsg:
		m.result = msg.result
		m.err = msg.err
		if msg.err == nil {
			m.history = append(m.history, msg.line)
		}
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *consoleModel) shutdown() {
	if m.session != nil {
		m.session.close(context.Background())
		m.session = nil
	}
}

func (m *consoleModel) prepareInputs() {
	params := inputParams(m.exports[m.selected])
	m.inputs = make([]textinput.Model, len(params))
	for i, p := range params {
		name, typ, _ := strings.Cut(p, ": ")
		ti := textinput.New()
		ti.Placeholder = typ
		ti.Prompt = name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *consoleModel) invoke() tea.Msg {
	if m.session == nil {
		return invokedMsg{err: fmt.Errorf("host not started")}
	}
	e := m.exports[m.selected]
	args := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		args[i] = in.Value()
	}

	out, err := m.session.invoke(context.Background(), e.Name, args)
	if err != nil {
		return invokedMsg{err: err}
	}
	line := e.Name
	for _, a := range args {
		line += " " + a
	}
	return invokedMsg{line: line + " -> " + firstLine(out), result: out}
}

func (m *consoleModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.session == nil {
		return "Starting host..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("crops console"))
	fmt.Fprintf(&b, " handles %d\n\n", m.session.host.Tracker().Total())

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a function to call:\n\n")
		end := min(m.offset+listHeight, len(m.exports))
		for i := m.offset; i < end; i++ {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + formatExport(m.exports[i])))
			} else {
				b.WriteString("  " + formatExport(m.exports[i]))
			}
			b.WriteString("\n")
		}
		if n := len(m.history); n > 0 {
			b.WriteString("\nRecent calls:\n")
			for _, h := range m.history[max(0, n-5):] {
				b.WriteString(helpStyle.Render("  " + h))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		e := m.exports[m.selected]
		fmt.Fprintf(&b, "Calling %s\n\n", funcStyle.Render(e.Name))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(input.Placeholder))
			b.WriteString("\n")
		}
		if e.Doc != "" {
			b.WriteString("\n")
			b.WriteString(helpStyle.Render(e.Doc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		e := m.exports[m.selected]
		fmt.Fprintf(&b, "Result of %s:\n\n", funcStyle.Render(e.Name))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatExport(e schema.Export) string {
	var params []string
	for _, p := range e.Params {
		params = append(params, p.Name+": "+typeStyle.Render(p.C))
	}
	result := ""
	if e.HasResult() {
		result = " -> " + typeStyle.Render(e.Result)
	}
	return funcStyle.Render(e.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func runInteractive(cfg config.Config) error {
	p := tea.NewProgram(newConsoleModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

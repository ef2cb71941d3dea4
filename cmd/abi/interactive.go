package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/soprox-abi/codec"
	"github.com/wippyai/soprox-abi/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
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

type modelState int

const (
	stateSelectSchema modelState = iota
	stateDecode
)

type schemaInfo struct {
	layout *codec.Layout
	name   string
}

type interactiveModel struct {
	err      error
	decErr   error
	filename string
	decoded  string
	schemas  []schemaInfo
	input    textinput.Model
	selected int
	state    modelState
	loaded   bool
}

type loadedMsg struct {
	err     error
	schemas []schemaInfo
}

func newInteractiveModel(filename string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "hex bytes"
	ti.Prompt = "data: "
	ti.Width = 64
	return &interactiveModel{filename: filename, input: ti, state: stateSelectSchema}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchemas
}

func (m *interactiveModel) loadSchemas() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	doc, err := schema.Load(data)
	if err != nil {
		return loadedMsg{err: err}
	}
	schemas := make([]schemaInfo, 0, doc.Len())
	for _, name := range doc.Names {
		s, _ := doc.Lookup(name)
		l, err := codec.Compile(s)
		if err != nil {
			return loadedMsg{err: fmt.Errorf("schema %q: %w", name, err)}
		}
		schemas = append(schemas, schemaInfo{name: name, layout: l})
	}
	return loadedMsg{schemas: schemas}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateSelectSchema {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectSchema && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectSchema && m.selected < len(m.schemas)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectSchema && len(m.schemas) > 0 {
				m.state = stateDecode
				m.input.SetValue("")
				m.input.Focus()
				m.decoded, m.decErr = "", nil
				return m, textinput.Blink
			}

		case "esc":
			if m.state == stateDecode {
				m.input.Blur()
				m.state = stateSelectSchema
			}
		}

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.schemas = msg.schemas
	}

	if m.state == stateDecode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.decode()
		return m, cmd
	}
	return m, nil
}

// decode re-decodes the input after every keystroke.
func (m *interactiveModel) decode() {
	m.decoded, m.decErr = "", nil
	text := strings.Join(strings.Fields(strings.TrimPrefix(m.input.Value(), "0x")), "")
	if text == "" {
		return
	}
	l := m.schemas[m.selected].layout
	if len(text) != 2*l.Space() {
		m.decErr = fmt.Errorf("%d of %d bytes", len(text)/2, l.Space())
		return
	}
	if _, err := hex.DecodeString(text); err != nil {
		m.decErr = err
		return
	}
	m.decoded, m.decErr = decodeHex(l, text)
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if !m.loaded {
		return "Loading schemas..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ABI Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectSchema:
		b.WriteString("Select a schema:\n\n")
		for i, s := range m.schemas {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + s.name))
			} else {
				b.WriteString("  " + nameStyle.Render(s.name))
			}
			b.WriteString(" " + typeStyle.Render(fmt.Sprintf("(%d bytes)", s.layout.Space())))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter decode • q quit"))

	case stateDecode:
		s := m.schemas[m.selected]
		fmt.Fprintf(&b, "%s %s\n\n", nameStyle.Render(s.name), typeStyle.Render(s.layout.String()))
		writeLayout(&b, s.layout)
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		switch {
		case m.decErr != nil:
			b.WriteString(errorStyle.Render(m.decErr.Error()))
		case m.decoded != "":
			b.WriteString(resultStyle.Render(m.decoded))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("type hex to decode • esc back • ctrl+c quit"))
	}
	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

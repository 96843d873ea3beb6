package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flatwire/flatwire/query"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var formats = []string{"flat", "json", "yaml"}

// explorerModel is a live parser: every keystroke re-parses the document
// and the lower pane tracks the result.
type explorerModel struct {
	err     error
	doc     map[string][]string
	input   textinput.Model
	format  int
	escaped bool
}

func newExplorerModel(escaped bool) *explorerModel {
	ti := textinput.New()
	ti.Placeholder = "name=test&ids=1&ids=2"
	ti.Prompt = "> "
	ti.Width = 72
	ti.Focus()

	return &explorerModel{
		input:   ti,
		escaped: escaped,
	}
}

func (m *explorerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			m.format = (m.format + 1) % len(formats)
			return m, nil

		case "tab":
			m.escaped = !m.escaped
			m.reparse()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.reparse()
	return m, cmd
}

func (m *explorerModel) reparse() {
	opts := query.DecodeOptions{}
	if m.escaped {
		opts.Unescape = url.QueryUnescape
	}

	m.doc = nil
	m.err = nil
	if m.input.Value() == "" {
		return
	}

	var doc map[string][]string
	if err := query.UnmarshalWith([]byte(m.input.Value()), &doc, opts); err != nil {
		m.err = err
		return
	}
	m.doc = doc
}

func (m *explorerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("qwire"))
	b.WriteString(" ")
	b.WriteString(modeStyle.Render(m.modeLine()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")

	case m.doc == nil:
		b.WriteString(helpStyle.Render("type a document to parse it"))
		b.WriteString("\n")

	case formats[m.format] == "flat":
		b.WriteString(m.fieldTable())

	default:
		out, err := renderDoc(m.doc, formats[m.format], m.escaped)
		if err != nil {
			b.WriteString(errorStyle.Render(err.Error()))
		} else {
			b.WriteString(out)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter format • tab escaping • esc quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *explorerModel) modeLine() string {
	esc := "raw"
	if m.escaped {
		esc = "escaped"
	}
	return formats[m.format] + " • " + esc
}

func (m *explorerModel) fieldTable() string {
	keys := make([]string, 0, len(m.doc))
	for k := range m.doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for i, v := range m.doc[k] {
			label := k
			if len(m.doc[k]) > 1 {
				label = fmt.Sprintf("%s[%d]", k, i)
			}
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(label))
			b.WriteString(" = ")
			b.WriteString(valueStyle.Render(v))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func runInteractive(escaped bool) error {
	p := tea.NewProgram(newExplorerModel(escaped), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

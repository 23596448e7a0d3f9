package main

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/cmem/box"
	"github.com/wippyai/cmem/ctext"
	"github.com/wippyai/cmem/libc"
	"github.com/wippyai/cmem/track"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	ptrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	originStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	stepDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	stepNextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateInput modelState = iota
	stateStepping
	stateDone
)

// lifecycle steps walked by the TUI, in order.
var stepNames = []string{
	"wrap: copy text into foreign memory",
	"clone: independent foreign copy",
	"close clone: dispose exactly once",
	"extract: hand ownership to the consumer",
	"consume: consumer prints and frees",
	"report: leak check",
}

type interactiveModel struct {
	err       error
	heap      *libc.Allocator
	reg       *track.Registry
	mem       *track.Allocator
	wrapped   *box.Owned[string]
	clone     *box.Owned[string]
	extracted unsafe.Pointer
	input     textinput.Model
	log       []string
	step      int
	state     modelState
}

func newInteractiveModel(text string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "text to wrap"
	ti.SetValue(text)
	ti.Focus()

	heap := libc.New()
	reg := track.NewRegistry()

	return &interactiveModel{
		heap:  heap,
		reg:   reg,
		mem:   track.Wrap(heap, reg, "tui"),
		input: ti,
		state: stateInput,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInput || msg.String() == "ctrl+c" {
				m.cleanup()
				return m, tea.Quit
			}
		case "enter":
			switch m.state {
			case stateInput:
				m.state = stateStepping
				return m, nil
			case stateStepping:
				m.runStep()
				return m, nil
			case stateDone:
				m.cleanup()
				return m, tea.Quit
			}
		}
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) runStep() {
	defer func() { m.step++ }()

	switch m.step {
	case 0:
		wrapped, err := ctext.New(m.mem, m.input.Value())
		if err != nil {
			m.fail(err)
			return
		}
		m.wrapped = wrapped
		m.logf("wrapped %q at %s", wrapped.Value(), fmtPtr(wrapped.Raw()))
	case 1:
		clone, err := ctext.Clone(m.mem, m.wrapped)
		if err != nil {
			m.fail(err)
			return
		}
		m.clone = clone
		m.logf("cloned to %s (equal=%v, aliased=%v)",
			fmtPtr(clone.Raw()),
			ctext.Equal(m.wrapped, clone),
			clone.Raw() == m.wrapped.Raw())
	case 2:
		m.clone.Close()
		m.clone.Close() // idempotent: nothing double-frees
		m.logf("clone closed; second Close was a no-op")
	case 3:
		m.extracted = m.wrapped.Extract()
		m.reg.Handoff(m.extracted, "steal_print")
		m.logf("extracted %s; wrapper disarmed, consumer owes the free", fmtPtr(m.extracted))
	case 4:
		m.logf("consumer prints %q and frees", ctext.View(m.extracted))
		m.mem.Free(m.extracted)
		m.extracted = nil
	case 5:
		if n := m.reg.Len(); n > 0 {
			m.fail(fmt.Errorf("%d foreign allocation(s) leaked", n))
			return
		}
		m.logf("no leaks, no double-frees")
		m.state = stateDone
	}
}

func (m *interactiveModel) fail(err error) {
	m.err = err
	m.state = stateDone
}

func (m *interactiveModel) cleanup() {
	if m.wrapped != nil {
		m.wrapped.Close()
	}
	if m.clone != nil {
		m.clone.Close()
	}
	if m.extracted != nil {
		m.mem.Free(m.extracted)
	}
	m.heap.Close()
}

func (m *interactiveModel) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cmem lifecycle"))
	b.WriteString("\n\n")

	if m.state == stateInput {
		b.WriteString("Text to copy into foreign memory:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter: start · ctrl+c: quit"))
		return b.String()
	}

	for i, name := range stepNames {
		switch {
		case i < m.step:
			b.WriteString(stepDoneStyle.Render("  ✓ " + name))
		case i == m.step && m.state == stateStepping:
			b.WriteString(stepNextStyle.Render("  → " + name))
		default:
			b.WriteString("    " + name)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n" + titleStyle.Render("live allocations") + "\n")
	if m.reg.Len() == 0 {
		b.WriteString(helpStyle.Render("  (none)") + "\n")
	}
	m.reg.Each(func(a track.Allocation) bool {
		b.WriteString(fmt.Sprintf("  %s  %4d B  %s\n",
			ptrStyle.Render(fmt.Sprintf("%#012x", a.Ptr)),
			a.Size,
			originStyle.Render(a.Origin)))
		return true
	})

	if len(m.log) > 0 {
		b.WriteByte('\n')
		for _, line := range m.log {
			b.WriteString("  " + line + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	b.WriteByte('\n')
	switch m.state {
	case stateStepping:
		b.WriteString(helpStyle.Render("enter: next step · q: quit"))
	case stateDone:
		b.WriteString(helpStyle.Render("enter or q: quit"))
	}
	return b.String()
}

func fmtPtr(p unsafe.Pointer) string {
	return ptrStyle.Render(fmt.Sprintf("%#012x", uintptr(p)))
}

func runInteractive(text string) error {
	p := tea.NewProgram(newInteractiveModel(text))
	_, err := p.Run()
	return err
}

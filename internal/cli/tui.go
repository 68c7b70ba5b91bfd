package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hetenyib/qiskit-qec/pkg/surface"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	gridSupportStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	gridQubitStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// plaquetteEntry is one selectable stabilizer in the browser.
type plaquetteEntry struct {
	basis surface.Basis
	id    surface.StabilizerID
	plaq  surface.Plaquette
}

// plaquetteModel is the bubbletea model for the interactive plaquette
// browser. The left pane lists every stabilizer (Z first, then X); the
// right pane shows the selected plaquette's support on the qubit grid.
type plaquetteModel struct {
	lattice *surface.Lattice
	entries []plaquetteEntry
	cursor  int
	height  int
	offset  int
}

// newPlaquetteModel creates a browser over all stabilizers of the lattice.
func newPlaquetteModel(l *surface.Lattice) plaquetteModel {
	var entries []plaquetteEntry
	for _, b := range []surface.Basis{surface.BasisZ, surface.BasisX} {
		for i, p := range l.Plaquettes(b) {
			entries = append(entries, plaquetteEntry{basis: b, id: surface.StabilizerID(i), plaq: p})
		}
	}
	return plaquetteModel{lattice: l, entries: entries, height: 15}
}

func (m plaquetteModel) Init() tea.Cmd {
	return nil
}

func (m plaquetteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m plaquetteModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Distance-%d rotated surface code", m.lattice.Distance())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.entries) {
		end = len(m.entries)
	}
	var list []string
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		line := fmt.Sprintf("%s%d  weight %d", e.basis, e.id, e.plaq.Weight())
		if i == m.cursor {
			line = listSelectedStyle.Render("> " + line)
		} else {
			line = listNormalStyle.Render("  " + line)
		}
		list = append(list, line)
	}

	left := strings.Join(list, "\n")
	right := m.detailView()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
	b.WriteString("\n")
	return b.String()
}

// detailView renders the selected plaquette: the qubit grid with its
// support highlighted, plus the slot table.
func (m plaquetteModel) detailView() string {
	if len(m.entries) == 0 {
		return ""
	}
	e := m.entries[m.cursor]

	support := make(map[surface.Qubit]bool)
	for _, q := range e.plaq.Support() {
		support[q] = true
	}

	d := m.lattice.Distance()
	var grid strings.Builder
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			q := surface.Qubit(x + d*y)
			cell := fmt.Sprintf("%3d", q)
			if support[q] {
				grid.WriteString(gridSupportStyle.Render(cell))
			} else {
				grid.WriteString(gridQubitStyle.Render(cell))
			}
		}
		grid.WriteString("\n")
	}

	slots := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(listDimStyle).
		Headers("SLOT", "QUBIT")
	for i, q := range e.plaq {
		val := "-"
		if q != surface.NoQubit {
			val = fmt.Sprintf("%d", q)
		}
		slots.Row(fmt.Sprintf("%d", i), val)
	}

	title := StyleHighlight.Render(fmt.Sprintf("%s%d", e.basis, e.id))
	return title + "\n" + grid.String() + slots.Render()
}

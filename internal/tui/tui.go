// Package tui implements an interactive protocol browser: pick a stored
// protocol and inspect its well-formedness (the CheckSwarm result).
//
// Grounded on internal/cli/tui.go's RepoListModel (cursor-driven list,
// scrolled with an offset/height window, bubbletea Update/View) adapted
// from browsing GitHub repositories to browsing stored swarm protocols.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/swarmcheck/pkg/store"
	"github.com/matzehuels/swarmcheck/pkg/swarmapi"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleNormal   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleErr      = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
)

// BrowserModel is the bubbletea model for the protocol browser.
type BrowserModel struct {
	store  store.Store
	names  []string
	cursor int
	height int
	offset int

	detail string
	err    error
}

// NewBrowserModel loads every stored protocol name and builds a browser
// over them.
func NewBrowserModel(ctx context.Context, st store.Store) (BrowserModel, error) {
	names, err := st.List(ctx)
	if err != nil {
		return BrowserModel{}, err
	}
	return BrowserModel{store: st, names: names, height: 15}, nil
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.names)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if len(m.names) == 0 {
				return m, nil
			}
			m.detail, m.err = m.inspect(m.names[m.cursor])
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m BrowserModel) inspect(name string) (string, error) {
	p, err := m.store.Get(context.Background(), name)
	if err != nil {
		return "", err
	}
	result := swarmapi.CheckSwarm(p.ProtocolJSON, p.SubscriptionsJSON)
	return result, nil
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Protocol Catalog"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("up/down navigate  enter check  q quit"))
	b.WriteString("\n\n")

	if len(m.names) == 0 {
		b.WriteString(styleDim.Render("(no protocols stored)"))
		b.WriteString("\n")
	}

	end := m.offset + m.height
	if end > len(m.names) {
		end = len(m.names)
	}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		style := styleNormal
		if i == m.cursor {
			cursor = "> "
			style = styleSelected
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, style.Render(m.names[i]))
	}

	if m.detail != "" {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(styleErr.Render(fmt.Sprintf("error: %v", m.err)))
		} else if strings.Contains(m.detail, `"type":"OK"`) {
			b.WriteString(styleOK.Render("well-formed"))
		} else {
			b.WriteString(styleErr.Render(m.detail))
		}
		b.WriteString("\n")
	}

	return b.String()
}

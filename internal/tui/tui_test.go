package tui_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/swarmcheck/internal/tui"
	"github.com/matzehuels/swarmcheck/pkg/store"
)

func TestNewBrowserModelListsStoredNames(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_ = st.Put(ctx, &store.Protocol{Name: "bravo"})
	_ = st.Put(ctx, &store.Protocol{Name: "alpha"})

	m, err := tui.NewBrowserModel(ctx, st)
	if err != nil {
		t.Fatalf("NewBrowserModel() error: %v", err)
	}

	view := m.View()
	if !strings.Contains(view, "alpha") || !strings.Contains(view, "bravo") {
		t.Errorf("View() = %q, want both protocol names", view)
	}
}

func TestBrowserModelNavigatesAndQuits(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_ = st.Put(ctx, &store.Protocol{Name: "alpha"})
	_ = st.Put(ctx, &store.Protocol{Name: "bravo"})

	m, err := tui.NewBrowserModel(ctx, st)
	if err != nil {
		t.Fatalf("NewBrowserModel() error: %v", err)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(tui.BrowserModel)
	if !strings.Contains(m.View(), "> bravo") {
		t.Errorf("View() after down = %q, want cursor on bravo", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Update(esc) returned nil cmd, want tea.Quit")
	}
}

func TestBrowserModelInspectsOnEnter(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_ = st.Put(ctx, &store.Protocol{
		Name: "paper-example",
		ProtocolJSON: `{"initial":"S0","transitions":[
			{"source":"S0","target":"S0","label":{"cmd":"a","logType":["E1"],"role":"P"}}
		]}`,
		SubscriptionsJSON: `{"P":["E1"],"Q":["E1"]}`,
	})

	m, err := tui.NewBrowserModel(ctx, st)
	if err != nil {
		t.Fatalf("NewBrowserModel() error: %v", err)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(tui.BrowserModel)
	if !strings.Contains(m.View(), "well-formed") {
		t.Errorf("View() after enter = %q, want well-formed result", m.View())
	}
}

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/internal/tui"
)

// tuiCommand launches the interactive protocol browser.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse stored protocols interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(c)
		},
	}
}

func runTUI(c *CLI) error {
	st := newProtocolStore()
	model, err := tui.NewBrowserModel(context.Background(), st)
	if err != nil {
		return fmt.Errorf("init browser: %w", err)
	}

	p := tea.NewProgram(model)
	_, err = p.Run()
	return err
}

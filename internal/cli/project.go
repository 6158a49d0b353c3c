package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/pkg/swarmapi"
)

type projectOpts struct {
	protocolPath      string
	subscriptionsPath string
	machinePath       string
	role              string
}

// projectCommand checks a specimen machine against the reference
// projection of a protocol for one role.
func (c *CLI) projectCommand() *cobra.Command {
	opts := projectOpts{}

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Check a specimen machine against a protocol's projection",
		Long: `Project checks whether a hand-written (or externally generated) local
state machine for one role matches the machine that would be projected
from the protocol for that role.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(c, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.protocolPath, "protocol", "p", "", "path to the protocol JSON file (required)")
	cmd.Flags().StringVarP(&opts.subscriptionsPath, "subscriptions", "s", "", "path to the subscriptions JSON file (required)")
	cmd.Flags().StringVarP(&opts.machinePath, "machine", "m", "", "path to the specimen machine JSON file (required)")
	cmd.Flags().StringVarP(&opts.role, "role", "r", "", "role to project and compare against (required)")
	cmd.MarkFlagRequired("protocol")
	cmd.MarkFlagRequired("subscriptions")
	cmd.MarkFlagRequired("machine")
	cmd.MarkFlagRequired("role")

	return cmd
}

func runProject(c *CLI, opts *projectOpts) error {
	protocolJSON, err := os.ReadFile(opts.protocolPath)
	if err != nil {
		return fmt.Errorf("read protocol: %w", err)
	}
	subscriptionsJSON, err := os.ReadFile(opts.subscriptionsPath)
	if err != nil {
		return fmt.Errorf("read subscriptions: %w", err)
	}
	machineJSON, err := os.ReadFile(opts.machinePath)
	if err != nil {
		return fmt.Errorf("read machine: %w", err)
	}

	prog := newProgress(c.Logger)
	result := swarmapi.CheckProjection(string(protocolJSON), string(subscriptionsJSON), opts.role, string(machineJSON))
	prog.done(fmt.Sprintf("Checked projection for role %s", opts.role))

	return printCheckResult(result)
}

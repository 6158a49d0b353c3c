package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/pkg/loader"
	"github.com/matzehuels/swarmcheck/pkg/projection"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
	"github.com/matzehuels/swarmcheck/pkg/swarmviz"
)

type renderOpts struct {
	protocolPath      string
	subscriptionsPath string
	role              string
	output            string
	format            string
}

// renderCommand renders a protocol (or one role's projected machine) as a
// Graphviz diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: c.Config.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a protocol or a role's projection as a diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(c, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.protocolPath, "protocol", "p", "", "path to the protocol JSON file (required)")
	cmd.Flags().StringVarP(&opts.subscriptionsPath, "subscriptions", "s", "", "path to the subscriptions JSON file (required when --role is set)")
	cmd.Flags().StringVarP(&opts.role, "role", "r", "", "render this role's projection instead of the full protocol")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.MarkFlagRequired("protocol")

	return cmd
}

func runRender(c *CLI, opts *renderOpts) error {
	protocolJSON, err := os.ReadFile(opts.protocolPath)
	if err != nil {
		return fmt.Errorf("read protocol: %w", err)
	}

	var raw swarm.RawProtocol
	if err := json.Unmarshal(protocolJSON, &raw); err != nil {
		return fmt.Errorf("decode protocol: %w", err)
	}

	var rawSubs map[string][]string
	if opts.subscriptionsPath != "" {
		subsJSON, err := os.ReadFile(opts.subscriptionsPath)
		if err != nil {
			return fmt.Errorf("read subscriptions: %w", err)
		}
		if err := json.Unmarshal(subsJSON, &rawSubs); err != nil {
			return fmt.Errorf("decode subscriptions: %w", err)
		}
	}

	res, subs, loadErrs := loader.Load(raw, rawSubs)
	if len(loadErrs) > 0 {
		return fmt.Errorf("protocol failed to load: %s", loadErrs[0])
	}

	var dot string
	if opts.role == "" {
		dot = swarmviz.ProtocolDOT(res.Graph, res.Initial)
	} else {
		machine, initial := projection.Project(res.Graph, res.Initial, subs, opts.role)
		dot = swarmviz.MachineDOT(machine, initial)
	}

	var out []byte
	switch opts.format {
	case "dot":
		out = []byte(dot)
	case "svg":
		svg, err := swarmviz.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		out = svg
	default:
		return fmt.Errorf("unknown format %q (want dot or svg)", opts.format)
	}

	if opts.output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Rendered to %s", opts.output)
	return nil
}

package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/internal/server"
)

type serveOpts struct {
	addr string
}

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the swarm checker over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(c, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "address to listen on")

	return cmd
}

func runServe(c *CLI, opts *serveOpts) error {
	s := server.New(newProtocolStore(), c.Logger)
	c.Logger.Infof("listening on %s", opts.addr)
	if err := http.ListenAndServe(opts.addr, s.Router()); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

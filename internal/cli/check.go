package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/pkg/cache"
	"github.com/matzehuels/swarmcheck/pkg/registry"
	"github.com/matzehuels/swarmcheck/pkg/swarmapi"
)

type checkOpts struct {
	protocolPath      string
	subscriptionsPath string
	registryURL       string
	name              string
	noCache           bool
}

// checkCommand checks a protocol's well-formedness.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{registryURL: c.Config.RegistryURL}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a swarm protocol for well-formedness",
		Long: `Check reads a protocol and its subscription map and reports every
well-formedness violation: non-determinism, missing subscriptions, and
guard invariance failures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(c, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.protocolPath, "protocol", "p", "", "path to the protocol JSON file")
	cmd.Flags().StringVarP(&opts.subscriptionsPath, "subscriptions", "s", "", "path to the subscriptions JSON file")
	cmd.Flags().StringVar(&opts.registryURL, "registry", opts.registryURL, "fetch the protocol from this registry base URL instead of local files")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "protocol name to fetch from --registry")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the registry response cache")

	return cmd
}

func runCheck(c *CLI, opts *checkOpts) error {
	protocolJSON, subscriptionsJSON, err := loadProtocolInputs(c, opts.protocolPath, opts.subscriptionsPath, opts.registryURL, opts.name, opts.noCache)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	result := swarmapi.CheckSwarm(protocolJSON, subscriptionsJSON)
	prog.done("Checked protocol")

	return printCheckResult(result)
}

// loadProtocolInputs reads protocol and subscriptions JSON either from
// local files or, when registryURL is set, from a registry.Client
// fronted by a file cache (unless noCache is set).
func loadProtocolInputs(c *CLI, protocolPath, subscriptionsPath, registryURL, name string, noCache bool) (string, string, error) {
	if registryURL == "" {
		if protocolPath == "" || subscriptionsPath == "" {
			return "", "", fmt.Errorf("either --protocol/--subscriptions or --registry/--name must be set")
		}
		protocolJSON, err := os.ReadFile(protocolPath)
		if err != nil {
			return "", "", fmt.Errorf("read protocol: %w", err)
		}
		subscriptionsJSON, err := os.ReadFile(subscriptionsPath)
		if err != nil {
			return "", "", fmt.Errorf("read subscriptions: %w", err)
		}
		return string(protocolJSON), string(subscriptionsJSON), nil
	}

	if name == "" {
		return "", "", fmt.Errorf("--name is required with --registry")
	}

	backend, err := newCacheBackend(noCache)
	if err != nil {
		return "", "", fmt.Errorf("init cache: %w", err)
	}
	client := registry.New(registryURL, registry.WithCache(backend, cache.NewDefaultKeyer(), c.Config.CacheTTL()))

	ctx := withLogger(context.Background(), c.Logger)
	protocolJSON, err := client.FetchProtocol(ctx, name)
	if err != nil {
		return "", "", fmt.Errorf("fetch protocol: %w", err)
	}
	subscriptionsJSON, err := client.FetchSubscriptions(ctx, name)
	if err != nil {
		return "", "", fmt.Errorf("fetch subscriptions: %w", err)
	}
	return protocolJSON, subscriptionsJSON, nil
}

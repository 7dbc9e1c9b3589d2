package commands

import (
	"github.com/spf13/cobra"

	"github.com/swarmup/swarmup/cmd/swarmup/handlers"
)

// URL returns the url command.
func URL() *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the Locust web UI address",
		Long: `URL queries the master service load balancer and prints the web UI
address. While AWS is still provisioning the balancer the address is
not yet known; rerun after a minute or use port-forward instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.URL(cmd.Context())
		},
	}
}

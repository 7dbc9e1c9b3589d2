package commands

import (
	"github.com/spf13/cobra"

	"github.com/swarmup/swarmup/cmd/swarmup/handlers"
)

// PortForward returns the port-forward command.
func PortForward() *cobra.Command {
	var opts handlers.PortForwardOptions

	cmd := &cobra.Command{
		Use:   "port-forward",
		Short: "Forward the Locust web UI to localhost",
		Long: `Port-forward tunnels the Locust web UI to the local machine via
kubectl. Useful while the load balancer is still provisioning or when
the balancer is not reachable from the current network. With
--component grafana the bundled Grafana is forwarded instead.

The tunnel stays open until interrupted with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.PortForward(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Component, "component", "master", "Service to forward (master or grafana)")
	cmd.Flags().IntVarP(&opts.LocalPort, "port", "p", 8089, "Local port to bind")
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Override the service namespace")

	return cmd
}

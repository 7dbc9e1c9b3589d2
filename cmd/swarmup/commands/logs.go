package commands

import (
	"github.com/spf13/cobra"

	"github.com/swarmup/swarmup/cmd/swarmup/handlers"
)

// Logs returns the logs command.
func Logs() *cobra.Command {
	var opts handlers.LogsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print logs from the Locust master or workers",
		Example: `  swarmup logs
  swarmup logs --component worker
  swarmup logs --follow`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Logs(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Component, "component", "master", "Swarm component to read logs from (master or worker)")
	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Stream logs until interrupted")
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Override the swarm namespace")
	cmd.Flags().Int64Var(&opts.Tail, "tail", 100, "Number of recent lines to show per pod")

	return cmd
}

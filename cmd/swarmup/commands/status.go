package commands

import (
	"github.com/spf13/cobra"

	"github.com/swarmup/swarmup/cmd/swarmup/handlers"
)

// Status returns the status command.
func Status() *cobra.Command {
	var opts handlers.StatusOptions

	cmd := &cobra.Command{
		Use:   "status [environment]",
		Short: "Show the state of the deployed swarm",
		Long: `Status reads the local state file and reports the deployment.

Without a state file the cluster is looked up by its naming convention,
so status keeps working after the state file is lost. With --detailed
the pods and the load balancer are queried live.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Environment = args[0]
			}
			return handlers.Status(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the swarmup.yaml configuration file")
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Override the swarm namespace")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "Also query pods and the load balancer")

	return cmd
}

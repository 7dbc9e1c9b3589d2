package commands

import (
	"github.com/spf13/cobra"

	"github.com/swarmup/swarmup/cmd/swarmup/handlers"
)

// Validate returns the validate command.
func Validate() *cobra.Command {
	var opts handlers.ValidateOptions

	cmd := &cobra.Command{
		Use:   "validate [environment]",
		Short: "Check prerequisites without deploying anything",
		Long: `Validate runs the same checks the setup pipeline starts with:
required CLIs on PATH, configuration files, AWS credentials, and a
reachable Docker daemon. Nothing is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Environment = args[0]
			}
			return handlers.Validate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the swarmup.yaml configuration file")
	cmd.Flags().StringVar(&opts.BuildContextDir, "context", ".", "Docker build context holding the Dockerfile and Locust scenarios")

	return cmd
}

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/swarmup/swarmup/cmd/swarmup/handlers"
)

// Cleanup returns the cleanup command.
func Cleanup() *cobra.Command {
	var opts handlers.CleanupOptions
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "cleanup [environment]",
		Short: "Tear down the swarm and all associated infrastructure",
		Long: `Cleanup removes everything setup created, in reverse order:

  1. the Locust and monitoring namespaces (releases the load balancer)
  2. the images in the ECR repository
  3. the terraform-managed infrastructure (EKS cluster, VPC, repository)
  4. local files (.swarmup-state, kubeconfig, monitoring.env)

Cleanup is idempotent: resources that are already gone are skipped, so
a partially failed teardown can simply be run again.

Example:
  swarmup cleanup staging --force

WARNING: This operation is irreversible. Running load tests are stopped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Environment = args[0]
			}
			opts.WaitTimeout = time.Duration(timeoutSeconds) * time.Second
			return handlers.Cleanup(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the swarmup.yaml configuration file")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 300, "Seconds to wait for each deletion to complete")

	return cmd
}

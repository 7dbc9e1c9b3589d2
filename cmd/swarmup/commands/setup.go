package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/swarmup/swarmup/cmd/swarmup/handlers"
)

// Setup returns the setup command.
//
// Setup runs the full deployment pipeline: prerequisite validation,
// infrastructure provisioning, cluster configuration, image publishing,
// and workload rollout.
func Setup() *cobra.Command {
	var opts handlers.SetupOptions
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "setup [environment]",
		Short: "Provision the cluster and deploy the Locust swarm",
		Long: `Setup provisions everything a load test needs and deploys the swarm.

The pipeline runs five stages in order:
  1. validate   - required CLIs, AWS credentials, Docker daemon
  2. provision  - VPC, EKS cluster, and ECR repository via terraform
  3. configure  - kubeconfig and node group readiness
  4. publish    - build and push the Locust image
  5. deploy     - Locust master, workers, and autoscaler

A state file (.swarmup-state) is written once the swarm is up. Setup is
safe to re-run; completed infrastructure is left as is and the workloads
are updated in place.

Example:
  swarmup setup staging --tag v42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Environment = args[0]
			}
			opts.WaitTimeout = time.Duration(timeoutSeconds) * time.Second
			return handlers.Setup(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the swarmup.yaml configuration file")
	cmd.Flags().StringVar(&opts.ImageTag, "tag", "", "Image tag to publish (defaults to a UTC timestamp)")
	cmd.Flags().StringVar(&opts.BuildContextDir, "context", ".", "Docker build context holding the Dockerfile and Locust scenarios")
	cmd.Flags().BoolVar(&opts.SkipHelm, "skip-helm", false, "Skip installing the Prometheus/Grafana monitoring stack")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 300, "Seconds to wait for each readiness poll")

	return cmd
}

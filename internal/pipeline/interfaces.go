// Package pipeline sequences the deployment and teardown phases of a
// Locust swarm and tracks the run state while they execute.
//
// Phases share a Context that is progressively populated: provisioning
// fills in the terraform outputs, configuration attaches the cluster
// client, publishing records the pushed image tag. Later phases read
// what earlier phases wrote. Phase failures stop the run immediately;
// there is no rollback of completed phases, a failed run is resumed by
// running setup again or cleaned with teardown.
package pipeline

import (
	"context"
	"time"

	"github.com/swarmup/swarmup/internal/config"
	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
	"github.com/swarmup/swarmup/internal/registry"
	"github.com/swarmup/swarmup/internal/terraform"
)

// Phase is one step of a pipeline run.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Stage returns the run state this phase executes under, or the
	// empty string for phases outside the tracked state machine.
	Stage() RunState

	// Run executes the phase.
	Run(ctx *Context) error
}

// TerraformRunner drives the infrastructure root module.
// Implemented by terraform.Runner.
type TerraformRunner interface {
	Init(ctx context.Context, stateBucket, region, env string) error
	Validate(ctx context.Context) error
	Plan(ctx context.Context, p *config.Profile, project string) error
	PlanDestroy(ctx context.Context, p *config.Profile, project string) error
	Apply(ctx context.Context) error
	Output(ctx context.Context) (*terraform.Outputs, error)
}

// CloudClient covers the AWS operations the phases need.
// Implemented by platform/aws.Client.
type CloudClient interface {
	CallerIdentity(ctx context.Context) (account string, arn string, err error)
	DescribeCluster(ctx context.Context, name string) (*platformaws.ClusterInfo, error)
	RegistryAuthToken(ctx context.Context) (*platformaws.RegistryAuth, error)
	PurgeRepository(ctx context.Context, repository string) (int, error)
	EnsureStateBucket(ctx context.Context, bucket string) error
}

// ClusterClient covers the Kubernetes operations the phases need.
// Implemented by kube.Client.
type ClusterClient interface {
	Apply(ctx context.Context, manifest []byte) error
	WaitForNodesReady(ctx context.Context, minReady int, timeout time.Duration) error
	WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout time.Duration) error
	WaitForLoadBalancerHost(ctx context.Context, namespace, name string, timeout time.Duration) (string, error)
	DeleteNamespace(ctx context.Context, name string, timeout time.Duration) error
}

// ImagePublisher builds and pushes the Locust image.
// Implemented by registry.Publisher.
type ImagePublisher interface {
	Ping(ctx context.Context) error
	Publish(ctx context.Context, opts registry.PublishOptions) error
}

// HelmInstaller installs the optional monitoring releases.
// Implemented by kube.HelmClient.
type HelmInstaller interface {
	InstallOrUpgrade(namespace, releaseName, repoURL, chartName, version string, values map[string]interface{}) error
}

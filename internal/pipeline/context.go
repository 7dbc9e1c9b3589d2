package pipeline

import (
	"context"
	"time"

	"github.com/swarmup/swarmup/internal/config"
	"github.com/swarmup/swarmup/internal/kube"
	"github.com/swarmup/swarmup/internal/state"
)

// DefaultWaitTimeout bounds every readiness poll in the pipeline.
const DefaultWaitTimeout = 5 * time.Minute

// DefaultKubeconfigPath is where the pipeline writes cluster access
// credentials, next to the state file so a deployment stays
// self-contained in its working directory.
const DefaultKubeconfigPath = ".swarmup-kubeconfig"

// Options carries the invocation flags that alter phase behavior.
type Options struct {
	// SkipHelm disables the monitoring addon phase.
	SkipHelm bool

	// Force skips interactive confirmation on teardown.
	Force bool

	// ImageTag tags the built Locust image. The setup handler defaults
	// it to a UTC timestamp when the flag is not given.
	ImageTag string

	// BuildContextDir is the Docker build context holding the
	// Dockerfile and the Locust scenario files.
	BuildContextDir string

	// WaitTimeout bounds each readiness poll.
	WaitTimeout time.Duration
}

// Context wraps the dependencies and accumulated state shared by the
// phases of one run.
type Context struct {
	context.Context

	Config  *config.Config
	Profile *config.Profile

	// State collects the deployment outputs as phases complete and is
	// persisted to StatePath once the workloads are up.
	State     *state.Deployment
	StatePath string

	// WebHost is the Locust web UI load balancer host, filled in by the
	// deploy phase when the balancer is already addressable.
	WebHost string

	KubeconfigPath string
	Options        Options

	Terraform TerraformRunner
	Cloud     CloudClient
	Publisher ImagePublisher

	// Kube and Helm are nil until the configure phase has written the
	// kubeconfig and built the clients.
	Kube ClusterClient
	Helm HelmInstaller

	// NewCluster and NewHelm construct the cluster clients once a
	// kubeconfig exists. Replaced in tests.
	NewCluster func(kubeconfigPath string) (ClusterClient, error)
	NewHelm    func(kubeconfigPath string) HelmInstaller

	Observer Observer
	Status   *Tracker
}

// NewContext creates a run context for the given environment profile.
// The cloud client and publisher are attached by the caller because
// their construction can fail independently of configuration.
func NewContext(ctx context.Context, cfg *config.Config, profile *config.Profile, opts Options) *Context {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultWaitTimeout
	}
	observer := NewConsoleObserver()

	return &Context{
		Context: ctx,
		Config:  cfg,
		Profile: profile,
		State: &state.Deployment{
			ClusterName: cfg.ClusterName(profile.Environment),
			Region:      profile.Region,
			Environment: profile.Environment,
		},
		StatePath:      state.DefaultPath,
		KubeconfigPath: DefaultKubeconfigPath,
		Options:        opts,
		NewCluster: func(kubeconfigPath string) (ClusterClient, error) {
			return kube.NewClient(kubeconfigPath)
		},
		NewHelm: func(kubeconfigPath string) HelmInstaller {
			return kube.NewHelmClient(kubeconfigPath)
		},
		Observer: observer,
		Status:   NewTracker(observer),
	}
}

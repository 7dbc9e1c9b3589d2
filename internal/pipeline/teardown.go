package pipeline

import (
	"os"
	"path/filepath"

	"github.com/swarmup/swarmup/internal/kube"
	"github.com/swarmup/swarmup/internal/manifests"
	"github.com/swarmup/swarmup/internal/report"
	"github.com/swarmup/swarmup/internal/state"
	"github.com/swarmup/swarmup/internal/terraform"
	"github.com/swarmup/swarmup/internal/util/retry"
)

// TeardownPhases returns the teardown pipeline in execution order:
// workloads first so the load balancer is released before the VPC is
// destroyed, then images, then the infrastructure, then local files.
// Every phase tolerates its resources being already gone, so a partial
// teardown can simply be run again.
func TeardownPhases() []Phase {
	return []Phase{
		&teardownWorkloadsPhase{},
		&teardownRegistryPhase{},
		&teardownInfraPhase{},
		&teardownLocalPhase{},
	}
}

// teardownWorkloadsPhase deletes the swarm namespace. Deleting the
// namespace removes the LoadBalancer service, which releases the AWS
// load balancer terraform does not know about.
type teardownWorkloadsPhase struct{}

func (p *teardownWorkloadsPhase) Name() string    { return "remove workloads" }
func (p *teardownWorkloadsPhase) Stage() RunState { return "" }

func (p *teardownWorkloadsPhase) Run(ctx *Context) error {
	if ctx.Kube == nil {
		ctx.Observer.Printf("no cluster access, skipping workload removal")
		return nil
	}
	for _, ns := range []string{manifests.Namespace, MonitoringNamespace} {
		if err := ctx.Kube.DeleteNamespace(ctx, ns, ctx.Options.WaitTimeout); err != nil {
			return err
		}
		ctx.Observer.Printf("namespace %s removed", ns)
	}
	return nil
}

// teardownRegistryPhase empties the ECR repository so terraform can
// destroy it. AWS refuses to delete a repository that still holds
// images.
type teardownRegistryPhase struct{}

func (p *teardownRegistryPhase) Name() string    { return "purge registry" }
func (p *teardownRegistryPhase) Stage() RunState { return "" }

func (p *teardownRegistryPhase) Run(ctx *Context) error {
	repository := ctx.Profile.Registry.Repository
	deleted, err := ctx.Cloud.PurgeRepository(ctx, repository)
	if err != nil {
		return err
	}
	if deleted > 0 {
		ctx.Observer.Printf("deleted %d image(s) from %s", deleted, repository)
	}
	return nil
}

// teardownInfraPhase destroys the terraform-managed infrastructure.
// AWS eventual consistency around freshly released ENIs makes destroy
// flaky, so the apply is retried with backoff.
type teardownInfraPhase struct{}

func (p *teardownInfraPhase) Name() string    { return "destroy infrastructure" }
func (p *teardownInfraPhase) Stage() RunState { return "" }

func (p *teardownInfraPhase) Run(ctx *Context) error {
	tf := ctx.Terraform
	profile := ctx.Profile

	if err := tf.Init(ctx, ctx.Config.StateBucket, profile.Region, profile.Environment); err != nil {
		return err
	}
	if err := tf.PlanDestroy(ctx, profile, ctx.Config.Project); err != nil {
		return err
	}
	return retry.Do(ctx, func() error {
		return tf.Apply(ctx)
	}, retry.WithAttempts(3))
}

// teardownLocalPhase removes the local artifacts of the deployment:
// the state file, the kubeconfig, the monitoring credentials, the
// report documents, and the files terraform left behind in its
// working directory.
type teardownLocalPhase struct{}

func (p *teardownLocalPhase) Name() string    { return "remove local files" }
func (p *teardownLocalPhase) Stage() RunState { return "" }

func (p *teardownLocalPhase) Run(ctx *Context) error {
	if err := state.Remove(ctx.StatePath); err != nil {
		return err
	}
	if err := kube.RemoveKubeconfig(ctx.KubeconfigPath); err != nil {
		return err
	}
	if home, err := os.UserHomeDir(); err == nil {
		sharedKubeconfig := home + "/.kube/config"
		if err := kube.PruneContext(sharedKubeconfig, ctx.State.ClusterName); err != nil {
			ctx.Observer.Printf("could not prune %s: %v", sharedKubeconfig, err)
		}
	}
	leftovers := []string{
		report.MonitoringEnvPath,
		report.SummaryPath,
		report.AccessPath,
		filepath.Join(ctx.Config.TerraformDir, terraform.PlanFile),
		filepath.Join(ctx.Config.TerraformDir, terraform.BackendOverrideFile),
	}
	for _, path := range leftovers {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	ctx.Observer.Printf("local files removed")
	return nil
}

package pipeline

import (
	"fmt"

	"github.com/swarmup/swarmup/internal/manifests"
	"github.com/swarmup/swarmup/internal/state"
)

// workloadsPhase renders the swarm manifests and applies them in
// order, waiting for each deployment before applying what depends on
// it. The master must be ready before the workers start, otherwise
// they spin reconnecting, and the workers before the autoscaler that
// targets them. The state file is written as soon as the workloads are
// up so that status, logs, and teardown can find the deployment even
// if a later phase fails.
type workloadsPhase struct{}

// waitAfter maps a manifest file to the deployment that must be ready
// before the next manifest is applied.
var waitAfter = map[string]string{
	"master-deployment.yaml": manifests.MasterDeployment,
	"worker-deployment.yaml": manifests.WorkerDeployment,
}

func (p *workloadsPhase) Name() string    { return "deploy" }
func (p *workloadsPhase) Stage() RunState { return StateDeploying }

func (p *workloadsPhase) Run(ctx *Context) error {
	if ctx.Kube == nil {
		return fmt.Errorf("no cluster client, configure phase did not run")
	}

	rendered, err := manifests.Render(manifests.Values{
		RegistryURL:       ctx.State.RegistryURL,
		ImageTag:          ctx.State.ImageTag,
		TargetHost:        ctx.Profile.TargetHost,
		Scenario:          ctx.Profile.Scenario,
		WorkerReplicas:    ctx.Profile.Workers.Replicas,
		WorkerMaxReplicas: ctx.Profile.Workers.MaxReplicas,
		WorkerTargetCPU:   ctx.Profile.Workers.TargetCPU,
	})
	if err != nil {
		return err
	}

	timeout := ctx.Options.WaitTimeout
	for _, m := range rendered {
		if err := ctx.Kube.Apply(ctx, m.Content); err != nil {
			return fmt.Errorf("failed to apply %s: %w", m.Name, err)
		}
		name, ok := waitAfter[m.Name]
		if !ok {
			continue
		}
		ctx.Observer.Printf("waiting for deployment %s...", name)
		if err := ctx.Kube.WaitForDeploymentReady(ctx, manifests.Namespace, name, timeout); err != nil {
			return err
		}
	}

	host, err := ctx.Kube.WaitForLoadBalancerHost(ctx, manifests.Namespace, manifests.MasterService, timeout)
	if err != nil {
		return err
	}
	if host == "" {
		ctx.Observer.Printf("load balancer still provisioning, check later with: swarmup url")
	} else {
		ctx.WebHost = host
		ctx.Observer.Printf("Locust web UI: http://%s:8089", host)
	}

	if err := state.Save(ctx.StatePath, ctx.State); err != nil {
		return fmt.Errorf("deployed but failed to write state file: %w", err)
	}
	ctx.Observer.Printf("state written to %s", ctx.StatePath)
	return nil
}

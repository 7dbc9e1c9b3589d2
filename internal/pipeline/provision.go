package pipeline

import (
	"fmt"

	"github.com/swarmup/swarmup/internal/state"
)

// provisionPhase creates or updates the cloud infrastructure via the
// terraform root module and records its outputs.
type provisionPhase struct{}

func (p *provisionPhase) Name() string    { return "provision" }
func (p *provisionPhase) Stage() RunState { return StateProvisioning }

func (p *provisionPhase) Run(ctx *Context) error {
	tf := ctx.Terraform
	profile := ctx.Profile

	if err := tf.Init(ctx, ctx.Config.StateBucket, profile.Region, profile.Environment); err != nil {
		return err
	}
	if err := tf.Validate(ctx); err != nil {
		return err
	}
	if err := tf.Plan(ctx, profile, ctx.Config.Project); err != nil {
		return err
	}
	if err := tf.Apply(ctx); err != nil {
		return err
	}

	out, err := tf.Output(ctx)
	if err != nil {
		return err
	}
	if out.RegistryURL == "" {
		return fmt.Errorf("terraform reported no registry URL, cannot publish images")
	}

	ctx.State.ClusterName = out.ClusterName
	ctx.State.ClusterEndpoint = out.ClusterEndpoint
	ctx.State.RegistryURL = out.RegistryURL
	if out.Region != "" {
		ctx.State.Region = out.Region
	}

	// Persist right away so a later failure still leaves enough on
	// disk for cleanup to find the cluster.
	if err := state.Save(ctx.StatePath, ctx.State); err != nil {
		return err
	}

	ctx.Observer.Printf("cluster %s provisioned in %s", out.ClusterName, ctx.State.Region)
	return nil
}

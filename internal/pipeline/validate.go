package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/swarmup/swarmup/internal/prereq"
)

// DeployPhases returns the full deployment pipeline in execution order.
func DeployPhases() []Phase {
	return []Phase{
		&validatePhase{},
		&provisionPhase{},
		&configurePhase{},
		&publishPhase{},
		&workloadsPhase{},
		&addonsPhase{},
	}
}

// validatePhase checks the workstation before anything is created:
// required CLIs, configuration files, AWS credentials, and a live
// Docker daemon. Nothing it does has side effects in the cloud except
// creating the remote-state bucket when one is configured.
type validatePhase struct{}

func (p *validatePhase) Name() string    { return "validate" }
func (p *validatePhase) Stage() RunState { return StateValidating }

func (p *validatePhase) Run(ctx *Context) error {
	results := prereq.CheckDefault()
	for _, r := range results.Results {
		if r.Found {
			ctx.Observer.Printf("found %s (%s)", r.Tool.Name, r.Path)
		}
	}
	if err := results.Error(); err != nil {
		return err
	}
	if err := prereq.CheckConfigFiles(
		ctx.Config.TerraformDir,
		filepath.Join(ctx.Options.BuildContextDir, "Dockerfile"),
	); err != nil {
		return err
	}

	account, arn, err := prereq.CheckCredentials(ctx, ctx.Cloud)
	if err != nil {
		if promptErr := prereq.PromptCredentialSetup(ctx); promptErr != nil {
			return err
		}
		account, arn, err = prereq.CheckCredentials(ctx, ctx.Cloud)
		if err != nil {
			return err
		}
	}
	ctx.Observer.Printf("AWS account %s (%s)", account, arn)

	if err := prereq.CheckDockerDaemon(ctx, ctx.Publisher); err != nil {
		return err
	}

	if bucket := ctx.Config.StateBucket; bucket != "" {
		if err := ctx.Cloud.EnsureStateBucket(ctx, bucket); err != nil {
			return fmt.Errorf("failed to prepare state bucket %s: %w", bucket, err)
		}
		ctx.Observer.Printf("terraform state bucket %s ready", bucket)
	}

	return nil
}

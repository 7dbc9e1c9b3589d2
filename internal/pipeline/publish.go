package pipeline

import (
	"fmt"

	"github.com/swarmup/swarmup/internal/registry"
)

// publishPhase builds the Locust image from the local build context
// and pushes it to the provisioned registry.
type publishPhase struct{}

func (p *publishPhase) Name() string    { return "publish" }
func (p *publishPhase) Stage() RunState { return StatePublishing }

func (p *publishPhase) Run(ctx *Context) error {
	if ctx.Options.ImageTag == "" {
		return fmt.Errorf("image tag is empty")
	}

	auth, err := ctx.Cloud.RegistryAuthToken(ctx)
	if err != nil {
		return err
	}

	err = ctx.Publisher.Publish(ctx, registry.PublishOptions{
		ContextDir: ctx.Options.BuildContextDir,
		Repository: ctx.State.RegistryURL,
		Tag:        ctx.Options.ImageTag,
		Auth:       auth,
	})
	if err != nil {
		return err
	}

	ctx.State.ImageTag = ctx.Options.ImageTag
	ctx.Observer.Printf("pushed %s:%s", ctx.State.RegistryURL, ctx.State.ImageTag)
	return nil
}

// Package registry builds the Locust image and publishes it to ECR.
package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	registrytypes "github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"

	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
)

// TargetPlatform is the fixed build platform. EKS node groups in the
// default profiles run x86 instances regardless of the build host.
const TargetPlatform = "linux/amd64"

// dockerAPI is the slice of the Docker client the publisher uses.
type dockerAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error)
	ImageTag(ctx context.Context, source, target string) error
	ImagePush(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error)
}

// Publisher builds, tags, and pushes the Locust container image.
type Publisher struct {
	docker dockerAPI
	out    io.Writer
}

// NewPublisher connects to the local Docker daemon.
func NewPublisher() (*Publisher, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Publisher{docker: cli, out: os.Stderr}, nil
}

// Ping verifies the Docker daemon is reachable. Satisfies
// prereq.DaemonPinger.
func (p *Publisher) Ping(ctx context.Context) error {
	_, err := p.docker.Ping(ctx)
	return err
}

// PublishOptions describes one build-and-push run.
type PublishOptions struct {
	// ContextDir is the Docker build context (holds the Dockerfile
	// and the Locust scenario files).
	ContextDir string

	// Repository is the full registry repository URL, e.g.
	// 123456789012.dkr.ecr.us-east-1.amazonaws.com/locust-swarm-dev.
	Repository string

	// Tag is the caller-supplied tag. "latest" is always pushed too.
	Tag string

	// Auth is the short-lived registry credential.
	Auth *platformaws.RegistryAuth
}

// Publish builds the image for TargetPlatform, tags it with both the
// caller tag and latest, and pushes both tags. Every step is fatal on
// failure; there is no retry.
func (p *Publisher) Publish(ctx context.Context, opts PublishOptions) error {
	tagged := opts.Repository + ":" + opts.Tag
	latest := opts.Repository + ":latest"

	if err := p.build(ctx, opts.ContextDir, tagged); err != nil {
		return err
	}

	if err := p.docker.ImageTag(ctx, tagged, latest); err != nil {
		return fmt.Errorf("failed to tag %s as latest: %w", tagged, err)
	}

	authHeader, err := encodeAuth(opts.Auth)
	if err != nil {
		return err
	}
	for _, ref := range []string{tagged, latest} {
		if err := p.push(ctx, ref, authHeader); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) build(ctx context.Context, contextDir, ref string) error {
	buildCtx, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to tar build context %s: %w", contextDir, err)
	}
	defer buildCtx.Close()

	resp, err := p.docker.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{ref},
		Dockerfile: "Dockerfile",
		Platform:   TargetPlatform,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	defer resp.Body.Close()

	// The build succeeds or fails inside the response stream.
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, p.out, 0, false, nil); err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	return nil
}

func (p *Publisher) push(ctx context.Context, ref, authHeader string) error {
	rc, err := p.docker.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: authHeader})
	if err != nil {
		return fmt.Errorf("push of %s failed: %w", ref, err)
	}
	defer rc.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(rc, p.out, 0, false, nil); err != nil {
		return fmt.Errorf("push of %s failed: %w", ref, err)
	}
	return nil
}

// encodeAuth renders the registry credential the way the Docker API
// wants it: base64url-encoded JSON in the X-Registry-Auth header.
func encodeAuth(auth *platformaws.RegistryAuth) (string, error) {
	if auth == nil {
		return "", fmt.Errorf("registry auth is required for push")
	}
	payload, err := json.Marshal(registrytypes.AuthConfig{
		Username:      auth.Username,
		Password:      auth.Password,
		ServerAddress: auth.Endpoint,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode registry auth: %w", err)
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

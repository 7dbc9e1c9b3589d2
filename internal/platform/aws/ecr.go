package aws

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"

	"github.com/swarmup/swarmup/internal/util/retry"
)

// RegistryAuth is a short-lived credential for the ECR registry.
type RegistryAuth struct {
	Username string
	Password string
	// Endpoint is the registry host, e.g.
	// 123456789012.dkr.ecr.us-east-1.amazonaws.com
	Endpoint string
}

// RegistryAuthToken fetches a short-lived ECR authorization token and
// decodes it into username/password form for the Docker client.
func (c *Client) RegistryAuthToken(ctx context.Context) (*RegistryAuth, error) {
	out, err := c.ecr.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return nil, fmt.Errorf("ecr get-authorization-token failed: %w", err)
	}
	if len(out.AuthorizationData) == 0 || out.AuthorizationData[0].AuthorizationToken == nil {
		return nil, errors.New("ecr returned no authorization data")
	}

	data := out.AuthorizationData[0]
	decoded, err := base64.StdEncoding.DecodeString(*data.AuthorizationToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ecr token: %w", err)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil, errors.New("ecr token is not in user:password form")
	}

	endpoint := ""
	if data.ProxyEndpoint != nil {
		endpoint = strings.TrimPrefix(*data.ProxyEndpoint, "https://")
	}

	return &RegistryAuth{Username: username, Password: password, Endpoint: endpoint}, nil
}

// PurgeRepository deletes every image in the repository, batching the
// deletes. A repository that does not exist is treated as success so
// teardown stays idempotent. Throttled list/delete calls are retried.
func (c *Client) PurgeRepository(ctx context.Context, repository string) (int, error) {
	deleted := 0
	for {
		var ids []ecrtypes.ImageIdentifier

		err := retry.Do(ctx, func() error {
			out, err := c.ecr.ListImages(ctx, &ecr.ListImagesInput{
				RepositoryName: &repository,
			})
			if err != nil {
				if isRepositoryNotFound(err) {
					return retry.Fatal(err)
				}
				return err
			}
			ids = out.ImageIds
			return nil
		})
		if err != nil {
			if isRepositoryNotFound(err) {
				return deleted, nil
			}
			return deleted, fmt.Errorf("ecr list-images failed for %s: %w", repository, err)
		}

		if len(ids) == 0 {
			return deleted, nil
		}

		err = retry.Do(ctx, func() error {
			_, err := c.ecr.BatchDeleteImage(ctx, &ecr.BatchDeleteImageInput{
				RepositoryName: &repository,
				ImageIds:       ids,
			})
			return err
		})
		if err != nil {
			return deleted, fmt.Errorf("ecr batch-delete-image failed for %s: %w", repository, err)
		}
		deleted += len(ids)
	}
}

func isRepositoryNotFound(err error) bool {
	var notFound *ecrtypes.RepositoryNotFoundException
	return errors.As(err, &notFound)
}

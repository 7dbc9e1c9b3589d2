// Package aws wraps the AWS SDK calls swarmup makes directly:
// credential validation (STS), cluster queries (EKS), registry auth and
// teardown (ECR), and the optional Terraform remote-state bucket (S3).
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// API surfaces used by the client, narrowed for test fakes.
type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type eksAPI interface {
	DescribeCluster(ctx context.Context, params *eks.DescribeClusterInput, optFns ...func(*eks.Options)) (*eks.DescribeClusterOutput, error)
}

type ecrAPI interface {
	GetAuthorizationToken(ctx context.Context, params *ecr.GetAuthorizationTokenInput, optFns ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
	ListImages(ctx context.Context, params *ecr.ListImagesInput, optFns ...func(*ecr.Options)) (*ecr.ListImagesOutput, error)
	BatchDeleteImage(ctx context.Context, params *ecr.BatchDeleteImageInput, optFns ...func(*ecr.Options)) (*ecr.BatchDeleteImageOutput, error)
}

type s3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Client bundles the AWS service clients for one region.
type Client struct {
	region string

	sts stsAPI
	eks eksAPI
	ecr ecrAPI
	s3  s3API
}

// NewClient loads the default credential chain for the given region.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Client{
		region: region,
		sts:    sts.NewFromConfig(cfg),
		eks:    eks.NewFromConfig(cfg),
		ecr:    ecr.NewFromConfig(cfg),
		s3:     s3.NewFromConfig(cfg),
	}, nil
}

// Region returns the region the client was built for.
func (c *Client) Region() string { return c.region }

// CallerIdentity validates credentials with STS GetCallerIdentity and
// returns the account ID and caller ARN.
func (c *Client) CallerIdentity(ctx context.Context) (string, string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", "", fmt.Errorf("sts get-caller-identity failed: %w", err)
	}
	return awssdk.ToString(out.Account), awssdk.ToString(out.Arn), nil
}

package aws

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSTS struct {
	out *sts.GetCallerIdentityOutput
	err error
}

func (f *fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f.out, f.err
}

func TestCallerIdentity(t *testing.T) {
	t.Parallel()

	c := &Client{sts: &fakeSTS{out: &sts.GetCallerIdentityOutput{
		Account: awssdk.String("123456789012"),
		Arn:     awssdk.String("arn:aws:iam::123456789012:user/ops"),
	}}}

	account, arn, err := c.CallerIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789012", account)
	assert.Contains(t, arn, "user/ops")

	c = &Client{sts: &fakeSTS{err: errors.New("ExpiredToken")}}
	_, _, err = c.CallerIdentity(context.Background())
	require.Error(t, err)
}

type fakeEKS struct {
	out *eks.DescribeClusterOutput
	err error
}

func (f *fakeEKS) DescribeCluster(context.Context, *eks.DescribeClusterInput, ...func(*eks.Options)) (*eks.DescribeClusterOutput, error) {
	return f.out, f.err
}

func TestDescribeCluster(t *testing.T) {
	t.Parallel()

	ca := base64.StdEncoding.EncodeToString([]byte("PEM DATA"))
	c := &Client{eks: &fakeEKS{out: &eks.DescribeClusterOutput{
		Cluster: &ekstypes.Cluster{
			Name:     awssdk.String("locust-swarm-dev"),
			Endpoint: awssdk.String("https://example.eks.amazonaws.com"),
			Status:   ekstypes.ClusterStatusActive,
			CertificateAuthority: &ekstypes.Certificate{
				Data: awssdk.String(ca),
			},
		},
	}}}

	info, err := c.DescribeCluster(context.Background(), "locust-swarm-dev")
	require.NoError(t, err)
	assert.Equal(t, "locust-swarm-dev", info.Name)
	assert.Equal(t, "ACTIVE", info.Status)
	assert.Equal(t, []byte("PEM DATA"), info.CAData)
}

func TestDescribeCluster_NotFound(t *testing.T) {
	t.Parallel()

	c := &Client{eks: &fakeEKS{err: &ekstypes.ResourceNotFoundException{}}}

	_, err := c.DescribeCluster(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClusterNotFound)
}

type fakeECR struct {
	authOut *ecr.GetAuthorizationTokenOutput
	authErr error

	// pages of image ids returned by successive ListImages calls
	pages   [][]ecrtypes.ImageIdentifier
	listErr error

	deleted [][]ecrtypes.ImageIdentifier
}

func (f *fakeECR) GetAuthorizationToken(context.Context, *ecr.GetAuthorizationTokenInput, ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error) {
	return f.authOut, f.authErr
}

func (f *fakeECR) ListImages(context.Context, *ecr.ListImagesInput, ...func(*ecr.Options)) (*ecr.ListImagesOutput, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.pages) == 0 {
		return &ecr.ListImagesOutput{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return &ecr.ListImagesOutput{ImageIds: page}, nil
}

func (f *fakeECR) BatchDeleteImage(_ context.Context, in *ecr.BatchDeleteImageInput, _ ...func(*ecr.Options)) (*ecr.BatchDeleteImageOutput, error) {
	f.deleted = append(f.deleted, in.ImageIds)
	return &ecr.BatchDeleteImageOutput{}, nil
}

func TestRegistryAuthToken(t *testing.T) {
	t.Parallel()

	token := base64.StdEncoding.EncodeToString([]byte("AWS:secret-password"))
	c := &Client{ecr: &fakeECR{authOut: &ecr.GetAuthorizationTokenOutput{
		AuthorizationData: []ecrtypes.AuthorizationData{{
			AuthorizationToken: awssdk.String(token),
			ProxyEndpoint:      awssdk.String("https://123456789012.dkr.ecr.us-east-1.amazonaws.com"),
		}},
	}}}

	auth, err := c.RegistryAuthToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AWS", auth.Username)
	assert.Equal(t, "secret-password", auth.Password)
	assert.Equal(t, "123456789012.dkr.ecr.us-east-1.amazonaws.com", auth.Endpoint)
}

func TestPurgeRepository_BatchesUntilEmpty(t *testing.T) {
	t.Parallel()

	fake := &fakeECR{pages: [][]ecrtypes.ImageIdentifier{
		{{ImageTag: awssdk.String("v1")}, {ImageTag: awssdk.String("latest")}},
		{{ImageTag: awssdk.String("v2")}},
	}}
	c := &Client{ecr: fake}

	deleted, err := c.PurgeRepository(context.Background(), "locust-swarm-dev")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Len(t, fake.deleted, 2)
}

func TestPurgeRepository_MissingRepositoryIsSuccess(t *testing.T) {
	t.Parallel()

	c := &Client{ecr: &fakeECR{listErr: &ecrtypes.RepositoryNotFoundException{}}}

	deleted, err := c.PurgeRepository(context.Background(), "already-gone")
	require.NoError(t, err, "absent repository must not fail teardown")
	assert.Zero(t, deleted)
}

type fakeS3 struct {
	headErr   error
	createErr error
	created   []string
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, awssdk.ToString(in.Bucket))
	return &s3.CreateBucketOutput{}, nil
}

func TestEnsureStateBucket(t *testing.T) {
	t.Parallel()

	// Bucket already exists: no create call.
	fake := &fakeS3{}
	c := &Client{region: "us-east-1", s3: fake}
	require.NoError(t, c.EnsureStateBucket(context.Background(), "tf-state"))
	assert.Empty(t, fake.created)

	// Bucket missing: created.
	fake = &fakeS3{headErr: &s3types.NotFound{}}
	c = &Client{region: "eu-west-1", s3: fake}
	require.NoError(t, c.EnsureStateBucket(context.Background(), "tf-state"))
	assert.Equal(t, []string{"tf-state"}, fake.created)

	// Already owned by us during a race: success.
	fake = &fakeS3{headErr: &s3types.NotFound{}, createErr: &s3types.BucketAlreadyOwnedByYou{}}
	c = &Client{region: "eu-west-1", s3: fake}
	require.NoError(t, c.EnsureStateBucket(context.Background(), "tf-state"))
}

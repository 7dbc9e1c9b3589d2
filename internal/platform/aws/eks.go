package aws

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
)

// ErrClusterNotFound is returned when the named cluster does not exist.
var ErrClusterNotFound = errors.New("cluster not found")

// ClusterInfo is what swarmup needs to know about a provisioned cluster.
type ClusterInfo struct {
	Name     string
	Endpoint string
	// CAData is the decoded cluster certificate authority.
	CAData []byte
	Status string
}

// DescribeCluster queries EKS for the named cluster. This is the
// fallback query path when the local state file is missing: the
// cluster name follows the "{project}-{environment}" convention.
func (c *Client) DescribeCluster(ctx context.Context, name string) (*ClusterInfo, error) {
	out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{
		Name: awssdk.String(name),
	})
	if err != nil {
		var notFound *ekstypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrClusterNotFound, name)
		}
		return nil, fmt.Errorf("eks describe-cluster %s failed: %w", name, err)
	}

	info := &ClusterInfo{
		Name:     awssdk.ToString(out.Cluster.Name),
		Endpoint: awssdk.ToString(out.Cluster.Endpoint),
		Status:   string(out.Cluster.Status),
	}

	if out.Cluster.CertificateAuthority != nil {
		ca, err := base64.StdEncoding.DecodeString(awssdk.ToString(out.Cluster.CertificateAuthority.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode cluster CA: %w", err)
		}
		info.CAData = ca
	}

	return info, nil
}

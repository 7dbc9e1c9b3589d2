package kube

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"

	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
)

func testCluster() *platformaws.ClusterInfo {
	return &platformaws.ClusterInfo{
		Name:     "locust-swarm-dev",
		Endpoint: "https://example.eks.amazonaws.com",
		CAData:   []byte("CERT"),
		Status:   "ACTIVE",
	}
}

func TestWriteKubeconfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, WriteKubeconfig(path, testCluster(), "us-east-1"))

	cfg, err := clientcmd.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "locust-swarm-dev", cfg.CurrentContext)

	cluster := cfg.Clusters["locust-swarm-dev"]
	require.NotNil(t, cluster)
	assert.Equal(t, "https://example.eks.amazonaws.com", cluster.Server)
	assert.Equal(t, []byte("CERT"), cluster.CertificateAuthorityData)

	user := cfg.AuthInfos["locust-swarm-dev"]
	require.NotNil(t, user)
	require.NotNil(t, user.Exec)
	assert.Equal(t, "aws", user.Exec.Command)
	assert.Contains(t, user.Exec.Args, "get-token")
	assert.Contains(t, user.Exec.Args, "locust-swarm-dev")
}

func TestPruneContext(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, WriteKubeconfig(path, testCluster(), "us-east-1"))

	require.NoError(t, PruneContext(path, "locust-swarm-dev"))

	cfg, err := clientcmd.LoadFromFile(path)
	require.NoError(t, err)
	assert.NotContains(t, cfg.Clusters, "locust-swarm-dev")
	assert.NotContains(t, cfg.Contexts, "locust-swarm-dev")
	assert.Empty(t, cfg.CurrentContext)

	// Pruning again, and pruning a missing file, are both success.
	require.NoError(t, PruneContext(path, "locust-swarm-dev"))
	require.NoError(t, PruneContext(filepath.Join(t.TempDir(), "missing"), "locust-swarm-dev"))
}

func TestRemoveKubeconfig_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, WriteKubeconfig(path, testCluster(), "us-east-1"))

	require.NoError(t, RemoveKubeconfig(path))
	require.NoError(t, RemoveKubeconfig(path))
}

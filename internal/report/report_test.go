package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSummary(t *testing.T) {
	out := Render(Summary{
		ClusterName:         "swarm-dev",
		Environment:         "dev",
		Region:              "us-east-1",
		RegistryURL:         "123456789012.dkr.ecr.us-east-1.amazonaws.com/swarm-dev",
		ImageTag:            "v7",
		WebURL:              "http://abc.elb.amazonaws.com:8089",
		WorkerReplicas:      2,
		WorkerMaxReplicas:   10,
		MonitoringInstalled: true,
	})

	assert.Contains(t, out, "swarm-dev")
	assert.Contains(t, out, "v7")
	assert.Contains(t, out, "http://abc.elb.amazonaws.com:8089")
	assert.Contains(t, out, "2 (scales to 10)")
	assert.Contains(t, out, MonitoringEnvPath)
}

func TestRenderSummaryPendingLoadBalancer(t *testing.T) {
	out := Render(Summary{ClusterName: "swarm-dev"})
	assert.Contains(t, out, "swarmup url")
	assert.NotContains(t, out, "http://")
}

func TestWriteDocuments(t *testing.T) {
	t.Chdir(t.TempDir())
	s := Summary{
		ClusterName:         "swarm-dev",
		Environment:         "dev",
		Region:              "us-east-1",
		RegistryURL:         "123456789012.dkr.ecr.us-east-1.amazonaws.com/swarm-dev",
		ImageTag:            "v7",
		WebURL:              "http://abc.elb.amazonaws.com:8089",
		WorkerReplicas:      2,
		WorkerMaxReplicas:   10,
		MonitoringInstalled: true,
	}
	require.NoError(t, WriteDocuments(s))

	summary, err := os.ReadFile(SummaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "swarm-dev")
	assert.Contains(t, string(summary), "2 (scales to 10)")
	assert.NotContains(t, string(summary), "\x1b[", "documents must be plain text")

	access, err := os.ReadFile(AccessPath)
	require.NoError(t, err)
	assert.Contains(t, string(access), "http://abc.elb.amazonaws.com:8089")
	assert.Contains(t, string(access), MonitoringEnvPath)
}

func TestAccessDocumentPendingLoadBalancer(t *testing.T) {
	out := AccessDocument(Summary{ClusterName: "swarm-dev"})
	assert.Contains(t, out, "swarmup url")
	assert.NotContains(t, out, "Grafana")
}

func TestWriteMonitoringEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitoring.env")
	creds := MonitoringCredentials{
		Namespace: "monitoring",
		Release:   "swarm-monitoring",
		Username:  "admin",
		Password:  "s3cret",
	}
	require.NoError(t, WriteMonitoringEnv(path, creds))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `GRAFANA_USER="admin"`)
	assert.Contains(t, string(data), `GRAFANA_PASSWORD="s3cret"`)
	assert.Contains(t, string(data), "port-forward svc/swarm-monitoring-grafana")
}

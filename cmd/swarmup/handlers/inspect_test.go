package handlers

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmup/swarmup/internal/pipeline"
	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
	"github.com/swarmup/swarmup/internal/state"
)

func swapClusterReader(t *testing.T, reader *fakeReader) {
	t.Helper()
	orig := newClusterReader
	t.Cleanup(func() { newClusterReader = orig })
	newClusterReader = func(string) (clusterReader, error) { return reader, nil }
}

func TestLogsRejectsUnknownComponent(t *testing.T) {
	err := Logs(context.Background(), LogsOptions{Component: "observer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown component")
}

func TestLogsPrintsEveryPod(t *testing.T) {
	reader := &fakeReader{pods: podList("locust-worker-1", "locust-worker-2")}
	swapClusterReader(t, reader)

	err := Logs(context.Background(), LogsOptions{Component: "worker", Tail: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"locust-worker-1", "locust-worker-2"}, reader.logged)
}

func TestLogsNoPods(t *testing.T) {
	swapClusterReader(t, &fakeReader{})

	err := Logs(context.Background(), LogsOptions{Component: "master"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no master pods")
}

func TestLogsFollowStreamsFirstPod(t *testing.T) {
	reader := &fakeReader{pods: podList("locust-master-abc", "locust-master-def")}
	swapClusterReader(t, reader)

	err := Logs(context.Background(), LogsOptions{Component: "master", Follow: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"locust-master-abc"}, reader.logged)
}

func TestURL(t *testing.T) {
	swapClusterReader(t, &fakeReader{lbHost: "abc.elb.amazonaws.com"})
	require.NoError(t, URL(context.Background()))
}

func TestURLPendingLoadBalancer(t *testing.T) {
	swapClusterReader(t, &fakeReader{})

	err := URL(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still provisioning")
}

func TestStatusNoDeployment(t *testing.T) {
	t.Chdir(t.TempDir())
	swapFactories(t, &fakeCloud{clusterErr: platformaws.ErrClusterNotFound})

	err := Status(context.Background(), StatusOptions{ConfigPath: writeTestConfig(t)})
	require.NoError(t, err)
}

func TestStatusWithStateFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, state.Save(state.DefaultPath, &state.Deployment{
		ClusterName:     "swarm-dev",
		ClusterEndpoint: "https://e",
		RegistryURL:     "123456789012.dkr.ecr.us-east-1.amazonaws.com/swarm-dev",
		Region:          "us-east-1",
		Environment:     "dev",
		ImageTag:        "v1",
	}))

	err := Status(context.Background(), StatusOptions{ConfigPath: writeTestConfig(t)})
	require.NoError(t, err)
}

func TestStatusDetailed(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, state.Save(state.DefaultPath, &state.Deployment{
		ClusterName: "swarm-dev",
		Region:      "us-east-1",
		Environment: "dev",
	}))
	reader := &fakeReader{pods: podList("locust-master-abc"), lbHost: "abc.elb.amazonaws.com"}
	swapClusterReader(t, reader)

	err := Status(context.Background(), StatusOptions{ConfigPath: writeTestConfig(t), Detailed: true})
	require.NoError(t, err)
}

func TestPortForwardRequiresKubeconfig(t *testing.T) {
	t.Chdir(t.TempDir())

	err := PortForward(context.Background(), PortForwardOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no kubeconfig")
}

func TestPortForwardRunsKubectl(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(pipeline.DefaultKubeconfigPath, []byte("apiVersion: v1"), 0600))

	orig := runKubectl
	t.Cleanup(func() { runKubectl = orig })

	var captured []string
	runKubectl = func(_ context.Context, args ...string) error {
		captured = args
		return nil
	}

	require.NoError(t, PortForward(context.Background(), PortForwardOptions{LocalPort: 9999}))
	assert.Contains(t, captured, "port-forward")
	assert.Contains(t, captured, "svc/locust-master")
	assert.Contains(t, captured, "9999:8089")
}

func TestPortForwardGrafana(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(pipeline.DefaultKubeconfigPath, []byte("apiVersion: v1"), 0600))

	orig := runKubectl
	t.Cleanup(func() { runKubectl = orig })

	var captured []string
	runKubectl = func(_ context.Context, args ...string) error {
		captured = args
		return nil
	}

	require.NoError(t, PortForward(context.Background(), PortForwardOptions{Component: "grafana", LocalPort: 3000}))
	assert.Contains(t, captured, "svc/swarm-monitoring-grafana")
	assert.Contains(t, captured, "monitoring")
	assert.Contains(t, captured, "3000:80")

	err := PortForward(context.Background(), PortForwardOptions{Component: "nginx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown component")
}

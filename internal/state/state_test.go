package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmup/swarmup/internal/state"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), state.DefaultPath)
	in := &state.Deployment{
		ClusterName:     "locust-swarm-dev",
		ClusterEndpoint: "https://ABC123.gr7.us-east-1.eks.amazonaws.com",
		RegistryURL:     "123456789012.dkr.ecr.us-east-1.amazonaws.com/locust-swarm-dev",
		Region:          "us-east-1",
		Environment:     "dev",
		ImageTag:        "v1.2.3",
	}

	require.NoError(t, state.Save(path, in))

	out, err := state.Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.Complete())
}

func TestSave_Overwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), state.DefaultPath)
	require.NoError(t, state.Save(path, &state.Deployment{ClusterName: "old", Region: "us-east-1"}))
	require.NoError(t, state.Save(path, &state.Deployment{ClusterName: "new", Region: "eu-west-1"}))

	out, err := state.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "new", out.ClusterName)
	assert.Equal(t, "eu-west-1", out.Region)

	// The intermediate file from the write-then-rename must be gone.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := state.Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err), "missing state must surface as not-exist for fallback")
}

func TestLoad_ToleratesCommentsAndQuotes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), state.DefaultPath)
	content := "# comment line\n\nCLUSTER_NAME='single-quoted'\nREGION=\"us-east-1\"\nGARBAGE\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := state.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "single-quoted", out.ClusterName)
	assert.Equal(t, "us-east-1", out.Region)
	assert.False(t, out.Complete(), "registry url missing")
}

func TestRemove_Idempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), state.DefaultPath)
	require.NoError(t, state.Save(path, &state.Deployment{ClusterName: "x"}))

	require.NoError(t, state.Remove(path))
	require.NoError(t, state.Remove(path), "removing an absent state file must succeed")
}

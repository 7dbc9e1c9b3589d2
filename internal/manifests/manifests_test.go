package manifests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func testValues() Values {
	return Values{
		RegistryURL:       "123456789012.dkr.ecr.us-east-1.amazonaws.com/swarm-dev",
		ImageTag:          "v42",
		TargetHost:        "https://staging.example.com",
		Scenario:          "httpbin",
		WorkerReplicas:    3,
		WorkerMaxReplicas: 15,
		WorkerTargetCPU:   70,
	}
}

func TestRenderSubstitutesEveryPlaceholder(t *testing.T) {
	rendered, err := Render(testValues())
	require.NoError(t, err)
	require.Len(t, rendered, len(order))

	for _, m := range rendered {
		assert.NotContains(t, string(m.Content), "_PLACEHOLDER", "manifest %s", m.Name)
	}
}

func TestRenderOrder(t *testing.T) {
	rendered, err := Render(testValues())
	require.NoError(t, err)

	names := make([]string, 0, len(rendered))
	for _, m := range rendered {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{
		"namespace.yaml",
		"configmap.yaml",
		"master-deployment.yaml",
		"master-service.yaml",
		"worker-deployment.yaml",
		"worker-hpa.yaml",
	}, names)
}

func TestRenderedManifestsAreValidYAML(t *testing.T) {
	rendered, err := Render(testValues())
	require.NoError(t, err)

	for _, m := range rendered {
		var obj map[string]interface{}
		require.NoError(t, yaml.Unmarshal(m.Content, &obj), "manifest %s", m.Name)
		assert.NotEmpty(t, obj["kind"], "manifest %s", m.Name)

		// Numeric substitutions must produce numbers, not strings.
		if m.Name == "worker-hpa.yaml" {
			spec := obj["spec"].(map[string]interface{})
			assert.Equal(t, float64(3), spec["minReplicas"])
			assert.Equal(t, float64(15), spec["maxReplicas"])
		}
	}
}

func TestRenderImageReferences(t *testing.T) {
	rendered, err := Render(testValues())
	require.NoError(t, err)

	image := "123456789012.dkr.ecr.us-east-1.amazonaws.com/swarm-dev:v42"
	var imageRefs int
	for _, m := range rendered {
		imageRefs += strings.Count(string(m.Content), image)
	}
	assert.Equal(t, 2, imageRefs, "master and worker deployments should reference the pushed image")
}

func TestRenderWorkerScaling(t *testing.T) {
	rendered, err := Render(testValues())
	require.NoError(t, err)

	byName := make(map[string]string, len(rendered))
	for _, m := range rendered {
		byName[m.Name] = string(m.Content)
	}

	assert.Contains(t, byName["worker-deployment.yaml"], "replicas: 3")
	assert.Contains(t, byName["worker-hpa.yaml"], "minReplicas: 3")
	assert.Contains(t, byName["worker-hpa.yaml"], "maxReplicas: 15")
	assert.Contains(t, byName["worker-hpa.yaml"], "averageUtilization: 70")
}

func TestRenderTargetHost(t *testing.T) {
	rendered, err := Render(testValues())
	require.NoError(t, err)

	for _, m := range rendered {
		if m.Name != "configmap.yaml" {
			continue
		}
		assert.Contains(t, string(m.Content), `TARGET_HOST: "https://staging.example.com"`)
		assert.Contains(t, string(m.Content), `LOCUST_SCENARIO: "httpbin"`)
		return
	}
	t.Fatal("configmap.yaml not rendered")
}

func TestRenderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Values)
		errMsg string
	}{
		{"missing registry", func(v *Values) { v.RegistryURL = "" }, "registry URL"},
		{"missing tag", func(v *Values) { v.ImageTag = "" }, "image tag"},
		{"missing target host", func(v *Values) { v.TargetHost = "" }, "target host"},
		{"missing scenario", func(v *Values) { v.Scenario = "" }, "scenario"},
		{"zero replicas", func(v *Values) { v.WorkerReplicas = 0 }, "at least 1"},
		{"max below min", func(v *Values) { v.WorkerMaxReplicas = 1 }, "below replicas"},
		{"cpu out of range", func(v *Values) { v.WorkerTargetCPU = 150 }, "between 1 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testValues()
			tt.mutate(&v)
			_, err := Render(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// Package manifests carries the embedded Kubernetes resource definitions
// for the Locust swarm and renders them for a concrete deployment.
//
// The YAML files are static except for a handful of literal placeholder
// tokens that are substituted at deploy time with values from the active
// profile and the published image. Rendering fails if any token survives
// substitution, so a new placeholder can never slip through half wired.
package manifests

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed manifests/*.yaml
var manifestsFS embed.FS

// Namespace is the namespace every swarm resource lives in.
const Namespace = "locust"

// Workload names inside the swarm namespace.
const (
	MasterDeployment = "locust-master"
	MasterService    = "locust-master"
	WorkerDeployment = "locust-worker"
)

// Placeholder tokens recognized in the embedded YAML.
const (
	registryURLToken       = "REGISTRY_URL_PLACEHOLDER"
	imageTagToken          = "IMAGE_TAG_PLACEHOLDER"
	targetHostToken        = "TARGET_HOST_PLACEHOLDER"
	scenarioToken          = "LOCUST_SCENARIO_PLACEHOLDER"
	workerReplicasToken    = "WORKER_REPLICAS_PLACEHOLDER"
	workerMaxReplicasToken = "WORKER_MAX_REPLICAS_PLACEHOLDER"
	workerTargetCPUToken   = "WORKER_TARGET_CPU_PLACEHOLDER"
)

// order lists the embedded files in the order they must be applied.
// The namespace has to exist before anything inside it, and the worker
// deployment before the autoscaler that targets it.
var order = []string{
	"namespace.yaml",
	"configmap.yaml",
	"master-deployment.yaml",
	"master-service.yaml",
	"worker-deployment.yaml",
	"worker-hpa.yaml",
}

// Manifest is one rendered resource definition.
type Manifest struct {
	Name    string
	Content []byte
}

// Values holds the deployment-specific inputs substituted into the
// embedded YAML.
type Values struct {
	RegistryURL       string
	ImageTag          string
	TargetHost        string
	Scenario          string
	WorkerReplicas    int
	WorkerMaxReplicas int
	WorkerTargetCPU   int
}

func (v Values) validate() error {
	if v.RegistryURL == "" {
		return fmt.Errorf("registry URL is required")
	}
	if v.ImageTag == "" {
		return fmt.Errorf("image tag is required")
	}
	if v.TargetHost == "" {
		return fmt.Errorf("target host is required")
	}
	if v.Scenario == "" {
		return fmt.Errorf("scenario is required")
	}
	if v.WorkerReplicas < 1 {
		return fmt.Errorf("worker replicas must be at least 1, got %d", v.WorkerReplicas)
	}
	if v.WorkerMaxReplicas < v.WorkerReplicas {
		return fmt.Errorf("worker max replicas %d is below replicas %d", v.WorkerMaxReplicas, v.WorkerReplicas)
	}
	if v.WorkerTargetCPU < 1 || v.WorkerTargetCPU > 100 {
		return fmt.Errorf("worker target CPU must be between 1 and 100, got %d", v.WorkerTargetCPU)
	}
	return nil
}

func (v Values) substitutions() map[string]string {
	return map[string]string{
		registryURLToken:       v.RegistryURL,
		imageTagToken:          v.ImageTag,
		targetHostToken:        v.TargetHost,
		scenarioToken:          v.Scenario,
		workerReplicasToken:    strconv.Itoa(v.WorkerReplicas),
		workerMaxReplicasToken: strconv.Itoa(v.WorkerMaxReplicas),
		workerTargetCPUToken:   strconv.Itoa(v.WorkerTargetCPU),
	}
}

// Render returns the full manifest set in apply order with every
// placeholder token replaced by the corresponding value.
func Render(v Values) ([]Manifest, error) {
	if err := v.validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest values: %w", err)
	}

	subs := v.substitutions()
	rendered := make([]Manifest, 0, len(order))
	for _, name := range order {
		raw, err := manifestsFS.ReadFile("manifests/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded manifest %s: %w", name, err)
		}

		content := string(raw)
		for token, value := range subs {
			content = strings.ReplaceAll(content, token, value)
		}
		if idx := strings.Index(content, "_PLACEHOLDER"); idx >= 0 {
			return nil, fmt.Errorf("manifest %s contains an unsubstituted placeholder", name)
		}

		rendered = append(rendered, Manifest{Name: name, Content: []byte(content)})
	}
	return rendered, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "swarmup.yaml"

// DefaultTerraformDir is where the Terraform root module lives when
// terraform_dir is not set.
const DefaultTerraformDir = "terraform"

// Load loads and validates a configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads and validates a configuration from bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills optional fields before validation.
func applyDefaults(cfg *Config) {
	if cfg.TerraformDir == "" {
		cfg.TerraformDir = DefaultTerraformDir
	}
	if cfg.Scenario == "" {
		cfg.Scenario = ScenarioJSONPlaceholder
	}
	for _, p := range cfg.Environments {
		if p == nil {
			continue
		}
		if len(p.NodeGroup.InstanceTypes) == 0 {
			p.NodeGroup.InstanceTypes = []string{"t3.medium"}
		}
		if p.NodeGroup.CapacityType == "" {
			p.NodeGroup.CapacityType = CapacityOnDemand
		}
		if p.NodeGroup.MinSize == 0 {
			p.NodeGroup.MinSize = 1
		}
		if p.NodeGroup.DesiredSize == 0 {
			p.NodeGroup.DesiredSize = p.NodeGroup.MinSize
		}
		if p.NodeGroup.MaxSize == 0 {
			p.NodeGroup.MaxSize = p.NodeGroup.DesiredSize
		}
		if p.Workers.Replicas == 0 {
			p.Workers.Replicas = 2
		}
		if p.Workers.MaxReplicas == 0 {
			p.Workers.MaxReplicas = p.Workers.Replicas * 5
		}
		if p.Workers.TargetCPU == 0 {
			p.Workers.TargetCPU = 70
		}
	}
}

// FindConfigFile locates swarmup.yaml starting in the current directory
// and walking up toward the filesystem root.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found in %s or any parent directory", DefaultConfigFilename, cwd)
}

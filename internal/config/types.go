// Package config provides the swarmup configuration schema.
//
// A single swarmup.yaml holds project-wide settings plus one profile per
// deployment environment (dev, staging, prod). A profile is selected by
// name at invocation time and is immutable once applied.
package config

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"sort"
	"strings"
)

// nameRegex validates project and environment names. Both end up in AWS
// resource names and Kubernetes labels, so they must be DNS-safe.
var nameRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// Config is the top-level swarmup configuration.
type Config struct {
	// Project is the name prefix for all provisioned resources
	// (cluster, ECR repository, tags).
	Project string `yaml:"project"`

	// TargetHost is the default base URL the Locust swarm will load.
	// Profiles may override it.
	TargetHost string `yaml:"target_host"`

	// Scenario selects which of the bundled load-test scenarios the
	// swarm runs. Profiles may override it.
	Scenario string `yaml:"scenario,omitempty"`

	// StateBucket optionally names an S3 bucket for Terraform remote
	// state. When set, swarmup ensures the bucket exists before init.
	StateBucket string `yaml:"state_bucket,omitempty"`

	// TerraformDir is the directory holding the Terraform root module.
	TerraformDir string `yaml:"terraform_dir,omitempty"`

	// Environments maps environment names to their profiles.
	Environments map[string]*Profile `yaml:"environments"`
}

// Profile is a named environment configuration. Selected at invocation
// time; never mutated after selection.
type Profile struct {
	// Environment is the profile name. Populated by Config.Profile.
	Environment string `yaml:"-"`

	// Region is the AWS region to deploy into.
	Region string `yaml:"region"`

	// VPCCIDR is the address range for the cluster VPC.
	VPCCIDR string `yaml:"vpc_cidr"`

	// PublicSubnets and PrivateSubnets are the per-AZ subnet ranges.
	PublicSubnets  []string `yaml:"public_subnets"`
	PrivateSubnets []string `yaml:"private_subnets"`

	// NodeGroup sizes the EKS managed node group.
	NodeGroup NodeGroup `yaml:"node_group"`

	// Registry configures the ECR repository for the Locust image.
	Registry Registry `yaml:"registry"`

	// Workers configures the Locust worker deployment and autoscaler.
	Workers Workers `yaml:"workers"`

	// TargetHost overrides the project-wide target host.
	TargetHost string `yaml:"target_host,omitempty"`

	// Scenario overrides the project-wide load-test scenario.
	Scenario string `yaml:"scenario,omitempty"`
}

// NodeGroup holds EKS managed node group sizing.
type NodeGroup struct {
	InstanceTypes []string     `yaml:"instance_types"`
	CapacityType  CapacityType `yaml:"capacity_type"`
	MinSize       int          `yaml:"min_size"`
	DesiredSize   int          `yaml:"desired_size"`
	MaxSize       int          `yaml:"max_size"`
}

// Registry holds container registry settings.
type Registry struct {
	// Repository is the ECR repository name. Defaults to
	// "{project}-{environment}".
	Repository string `yaml:"repository,omitempty"`
}

// Workers holds Locust worker deployment settings.
type Workers struct {
	Replicas    int `yaml:"replicas"`
	MaxReplicas int `yaml:"max_replicas"`

	// TargetCPU is the average CPU utilization percentage the
	// autoscaler holds the worker pool at.
	TargetCPU int `yaml:"target_cpu"`
}

// CapacityType is the EKS node group purchase option.
type CapacityType string

const (
	// CapacityOnDemand uses on-demand instances.
	CapacityOnDemand CapacityType = "ON_DEMAND"
	// CapacitySpot uses spot instances.
	CapacitySpot CapacityType = "SPOT"
)

// IsValid returns true for a known capacity type.
func (c CapacityType) IsValid() bool {
	switch c {
	case CapacityOnDemand, CapacitySpot:
		return true
	default:
		return false
	}
}

// Scenarios bundled in the Locust image. The locustfile selects one
// via the LOCUST_SCENARIO environment variable.
const (
	ScenarioJSONPlaceholder = "jsonplaceholder"
	ScenarioHTTPBin         = "httpbin"
	ScenarioCustom          = "custom"
)

func validScenario(s string) bool {
	switch s {
	case ScenarioJSONPlaceholder, ScenarioHTTPBin, ScenarioCustom:
		return true
	default:
		return false
	}
}

// Profile returns the profile for the named environment with its
// derived fields populated.
func (c *Config) Profile(env string) (*Profile, error) {
	p, ok := c.Environments[env]
	if !ok {
		return nil, fmt.Errorf("unknown environment %q (have: %s)", env, strings.Join(c.EnvironmentNames(), ", "))
	}
	p.Environment = env
	if p.TargetHost == "" {
		p.TargetHost = c.TargetHost
	}
	if p.Scenario == "" {
		p.Scenario = c.Scenario
	}
	if p.Registry.Repository == "" {
		p.Registry.Repository = fmt.Sprintf("%s-%s", c.Project, env)
	}
	return p, nil
}

// EnvironmentNames returns the configured environment names, sorted.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClusterName returns the conventional EKS cluster name for an environment.
// The same convention is used by the Terraform module, which lets later
// stages re-derive the name when the state file is missing.
func (c *Config) ClusterName(env string) string {
	return fmt.Sprintf("%s-%s", c.Project, env)
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	var errs []error

	if c.Project == "" {
		errs = append(errs, errors.New("project is required"))
	} else if !nameRegex.MatchString(c.Project) {
		errs = append(errs, fmt.Errorf("project %q must be lowercase alphanumeric with hyphens", c.Project))
	}

	if !validScenario(c.Scenario) {
		errs = append(errs, fmt.Errorf("scenario %q must be %s, %s, or %s",
			c.Scenario, ScenarioJSONPlaceholder, ScenarioHTTPBin, ScenarioCustom))
	}

	if len(c.Environments) == 0 {
		errs = append(errs, errors.New("at least one environment is required"))
	}

	for name, p := range c.Environments {
		if !nameRegex.MatchString(name) {
			errs = append(errs, fmt.Errorf("environment name %q must be lowercase alphanumeric with hyphens", name))
		}
		if err := p.validate(); err != nil {
			errs = append(errs, fmt.Errorf("environment %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func (p *Profile) validate() error {
	var errs []error

	if p.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}

	if err := validateCIDR("vpc_cidr", p.VPCCIDR); err != nil {
		errs = append(errs, err)
	}
	for _, cidr := range p.PublicSubnets {
		if err := validateCIDR("public_subnets", cidr); err != nil {
			errs = append(errs, err)
		}
	}
	for _, cidr := range p.PrivateSubnets {
		if err := validateCIDR("private_subnets", cidr); err != nil {
			errs = append(errs, err)
		}
	}

	if len(p.NodeGroup.InstanceTypes) == 0 {
		errs = append(errs, errors.New("node_group.instance_types is required"))
	}
	if !p.NodeGroup.CapacityType.IsValid() {
		errs = append(errs, fmt.Errorf("node_group.capacity_type %q must be ON_DEMAND or SPOT", p.NodeGroup.CapacityType))
	}
	if p.NodeGroup.MinSize < 1 {
		errs = append(errs, errors.New("node_group.min_size must be at least 1"))
	}
	if p.NodeGroup.DesiredSize < p.NodeGroup.MinSize || p.NodeGroup.DesiredSize > p.NodeGroup.MaxSize {
		errs = append(errs, fmt.Errorf("node_group.desired_size %d must be between min_size %d and max_size %d",
			p.NodeGroup.DesiredSize, p.NodeGroup.MinSize, p.NodeGroup.MaxSize))
	}

	if p.Scenario != "" && !validScenario(p.Scenario) {
		errs = append(errs, fmt.Errorf("scenario %q must be %s, %s, or %s",
			p.Scenario, ScenarioJSONPlaceholder, ScenarioHTTPBin, ScenarioCustom))
	}

	if p.Workers.Replicas < 1 {
		errs = append(errs, errors.New("workers.replicas must be at least 1"))
	}
	if p.Workers.MaxReplicas < p.Workers.Replicas {
		errs = append(errs, fmt.Errorf("workers.max_replicas %d must be >= workers.replicas %d",
			p.Workers.MaxReplicas, p.Workers.Replicas))
	}

	return errors.Join(errs...)
}

func validateCIDR(field, cidr string) error {
	if cidr == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, _, err := net.ParseCIDR(cidr); err != nil {
		return fmt.Errorf("%s %q is not a valid CIDR: %w", field, cidr, err)
	}
	return nil
}

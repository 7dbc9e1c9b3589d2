// Package terraform wraps the terraform CLI for the provisioning stage.
//
// The wrapper is deliberately thin: terraform owns the resource graph,
// state diffing, and idempotence. swarmup only sequences init →
// validate → plan → apply and reads outputs back.
package terraform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/swarmup/swarmup/internal/config"
)

// PlanFile is the saved plan consumed by Apply.
const PlanFile = "tfplan"

// Runner executes terraform commands in a working directory.
type Runner struct {
	// Dir is the Terraform root module directory.
	Dir string

	// run executes a terraform invocation and returns combined output.
	// Replaceable in tests.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewRunner returns a Runner for the given module directory.
func NewRunner(dir string) *Runner {
	r := &Runner{Dir: dir}
	r.run = r.execTerraform
	return r
}

func (r *Runner) execTerraform(ctx context.Context, args ...string) ([]byte, error) {
	// #nosec G204 - args are built from validated config, not raw user input
	cmd := exec.CommandContext(ctx, "terraform", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "TF_IN_AUTOMATION=1")

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		return buf.Bytes(), fmt.Errorf("terraform %s failed: %w\n%s", args[0], err, buf.String())
	}
	return buf.Bytes(), nil
}

// BackendOverrideFile declares the S3 backend when remote state is
// configured. Terraform merges *_override.tf files into the root
// module, so the module itself stays usable with local state. Written
// by Init and removed again on teardown.
const BackendOverrideFile = "backend_override.tf"

// Init runs terraform init. When stateBucket is set an override file
// declaring the S3 backend is written first and the backend is pointed
// at the bucket, keyed by environment.
func (r *Runner) Init(ctx context.Context, stateBucket, region, env string) error {
	args := []string{"init", "-input=false"}
	if stateBucket != "" {
		override := "terraform {\n  backend \"s3\" {}\n}\n"
		if err := os.WriteFile(filepath.Join(r.Dir, BackendOverrideFile), []byte(override), 0644); err != nil {
			return fmt.Errorf("failed to write backend override: %w", err)
		}
		args = append(args,
			"-backend-config=bucket="+stateBucket,
			"-backend-config=region="+region,
			"-backend-config=key="+env+"/terraform.tfstate",
		)
	}
	_, err := r.run(ctx, args...)
	return err
}

// Validate runs terraform validate.
func (r *Runner) Validate(ctx context.Context) error {
	_, err := r.run(ctx, "validate")
	return err
}

// Plan computes a change plan for the profile and saves it to PlanFile.
func (r *Runner) Plan(ctx context.Context, p *config.Profile, project string) error {
	args := append([]string{"plan", "-input=false", "-out=" + PlanFile}, varArgs(p, project)...)
	_, err := r.run(ctx, args...)
	return err
}

// PlanDestroy computes a destroy plan and saves it to PlanFile.
func (r *Runner) PlanDestroy(ctx context.Context, p *config.Profile, project string) error {
	args := append([]string{"plan", "-destroy", "-input=false", "-out=" + PlanFile}, varArgs(p, project)...)
	_, err := r.run(ctx, args...)
	return err
}

// Apply applies the previously saved plan.
func (r *Runner) Apply(ctx context.Context) error {
	_, err := r.run(ctx, "apply", "-input=false", PlanFile)
	return err
}

// Outputs holds the named outputs of the root module.
type Outputs struct {
	ClusterName     string
	ClusterEndpoint string
	RegistryURL     string
	Region          string
}

// Output queries the root module outputs as JSON and extracts the
// values later stages depend on. This is the provisioner's query
// interface used to re-derive state when the state file is absent.
func (r *Runner) Output(ctx context.Context) (*Outputs, error) {
	raw, err := r.run(ctx, "output", "-json")
	if err != nil {
		return nil, err
	}

	var parsed map[string]struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse terraform outputs: %w", err)
	}

	out := &Outputs{}
	for name, dst := range map[string]*string{
		"cluster_name":     &out.ClusterName,
		"cluster_endpoint": &out.ClusterEndpoint,
		"registry_url":     &out.RegistryURL,
		"region":           &out.Region,
	} {
		entry, ok := parsed[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(entry.Value, &s); err != nil {
			return nil, fmt.Errorf("terraform output %s is not a string: %w", name, err)
		}
		*dst = s
	}

	if out.ClusterName == "" {
		return nil, fmt.Errorf("terraform output cluster_name is empty; has the infrastructure been applied?")
	}
	return out, nil
}

// varArgs renders an environment profile into -var flags.
func varArgs(p *config.Profile, project string) []string {
	vars := []string{
		"project=" + project,
		"environment=" + p.Environment,
		"region=" + p.Region,
		"vpc_cidr=" + p.VPCCIDR,
		"public_subnets=" + hclList(p.PublicSubnets),
		"private_subnets=" + hclList(p.PrivateSubnets),
		"node_instance_types=" + hclList(p.NodeGroup.InstanceTypes),
		"node_capacity_type=" + string(p.NodeGroup.CapacityType),
		fmt.Sprintf("node_min_size=%d", p.NodeGroup.MinSize),
		fmt.Sprintf("node_desired_size=%d", p.NodeGroup.DesiredSize),
		fmt.Sprintf("node_max_size=%d", p.NodeGroup.MaxSize),
		"registry_repository=" + p.Registry.Repository,
	}

	args := make([]string, 0, len(vars)*2)
	for _, v := range vars {
		args = append(args, "-var", v)
	}
	return args
}

// hclList renders a string slice as an HCL list literal.
func hclList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

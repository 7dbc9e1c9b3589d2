// Package prereq verifies that the operator's workstation can run the
// deployment pipeline: required CLIs on PATH, valid AWS credentials,
// a reachable Docker daemon, and the expected configuration files.
package prereq

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tool is a client executable the pipeline shells out to.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required marks the tool as mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL points at installation instructions, printed as the
	// remediation hint when the tool is missing.
	InstallURL string
}

// DefaultTools returns the executables the pipeline requires.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "terraform",
			Required:    true,
			Description: "Provisions the VPC, EKS cluster, and ECR repository",
			InstallURL:  "https://developer.hashicorp.com/terraform/install",
		},
		{
			Name:        "kubectl",
			Required:    true,
			Description: "Used for port-forwarding into the cluster",
			InstallURL:  "https://kubernetes.io/docs/tasks/tools/",
		},
		{
			Name:        "aws",
			Required:    true,
			Description: "Issues EKS authentication tokens for kubeconfig",
			InstallURL:  "https://docs.aws.amazon.com/cli/latest/userguide/getting-started-install.html",
		},
		{
			Name:        "docker",
			Required:    true,
			Description: "Builds and pushes the Locust image",
			InstallURL:  "https://docs.docker.com/engine/install/",
		},
		{
			Name:        "helm",
			Required:    false,
			Description: "Useful for inspecting the monitoring releases swarmup installs",
			InstallURL:  "https://helm.sh/docs/intro/install/",
		},
	}
}

// CheckResult is the outcome of probing a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults aggregates tool probe outcomes.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors reports whether any required tool is missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error naming every missing required tool together
// with its installation hint, or nil.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check probes the given tools on PATH.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = toolVersion(tool.Name)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault probes the default tool set.
func CheckDefault() *CheckResults {
	return Check(DefaultTools())
}

// CheckConfigFiles verifies that the listed files exist. The first
// missing file aborts with a descriptive error.
func CheckConfigFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("required file %s not found", path)
			}
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
	}
	return nil
}

// IdentityChecker validates cloud credentials via an identity call.
// Implemented by the AWS platform client (STS GetCallerIdentity).
type IdentityChecker interface {
	CallerIdentity(ctx context.Context) (account string, arn string, err error)
}

// DaemonPinger reports whether a container runtime is reachable.
// Implemented by the registry publisher (Docker daemon ping).
type DaemonPinger interface {
	Ping(ctx context.Context) error
}

// CheckCredentials validates AWS credentials with a cheap identity call.
func CheckCredentials(ctx context.Context, ident IdentityChecker) (account, arn string, err error) {
	account, arn, err = ident.CallerIdentity(ctx)
	if err != nil {
		return "", "", fmt.Errorf("AWS credentials are not valid: %w", err)
	}
	return account, arn, nil
}

// CheckDockerDaemon verifies the Docker daemon responds.
func CheckDockerDaemon(ctx context.Context, pinger DaemonPinger) error {
	if err := pinger.Ping(ctx); err != nil {
		return fmt.Errorf("Docker daemon is not reachable (is Docker running?): %w", err)
	}
	return nil
}

// toolVersion asks a tool for its version, best effort.
func toolVersion(name string) string {
	for _, flag := range []string{"--version", "version", "-v"} {
		// #nosec G204 - name comes from the static tool catalog
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}
	return ""
}

package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/swarmup/swarmup/internal/prereq"
)

// ValidateOptions carries the validate command flags.
type ValidateOptions struct {
	ConfigPath      string
	Environment     string
	BuildContextDir string
}

// Validate handles the validate command: the setup preflight checks
// without any side effects in the cloud.
func Validate(ctx context.Context, opts ValidateOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	profile, err := resolveProfile(cfg, opts.Environment)
	if err != nil {
		return err
	}

	results := prereq.CheckDefault()
	for _, r := range results.Results {
		switch {
		case r.Found:
			fmt.Printf("[OK] %-10s %s\n", r.Tool.Name, r.Version)
		case r.Tool.Required:
			fmt.Printf("[!!] %-10s missing - %s\n", r.Tool.Name, r.Tool.InstallURL)
		default:
			fmt.Printf("[??] %-10s missing (optional) - %s\n", r.Tool.Name, r.Tool.InstallURL)
		}
	}
	if err := results.Error(); err != nil {
		return err
	}

	if opts.BuildContextDir == "" {
		opts.BuildContextDir = "."
	}
	if err := prereq.CheckConfigFiles(
		cfg.TerraformDir,
		filepath.Join(opts.BuildContextDir, "Dockerfile"),
	); err != nil {
		return err
	}
	fmt.Println("[OK] configuration files")

	cloud, err := newCloudClient(ctx, profile.Region)
	if err != nil {
		return err
	}
	account, arn, err := prereq.CheckCredentials(ctx, cloud)
	if err != nil {
		return err
	}
	fmt.Printf("[OK] AWS account %s (%s)\n", account, arn)

	publisher, err := newPublisher()
	if err != nil {
		return err
	}
	if err := prereq.CheckDockerDaemon(ctx, publisher); err != nil {
		return err
	}
	fmt.Println("[OK] Docker daemon")

	fmt.Printf("\nReady to deploy %s\n", cfg.ClusterName(profile.Environment))
	return nil
}

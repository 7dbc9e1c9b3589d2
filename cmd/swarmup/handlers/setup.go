package handlers

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/swarmup/swarmup/internal/pipeline"
	"github.com/swarmup/swarmup/internal/report"
	"github.com/swarmup/swarmup/internal/terraform"
)

// SetupOptions carries the setup command flags.
type SetupOptions struct {
	ConfigPath      string
	Environment     string
	ImageTag        string
	BuildContextDir string
	SkipHelm        bool
	WaitTimeout     time.Duration
}

// runDeployPipeline is a function variable so tests can intercept the
// pipeline run.
var runDeployPipeline = func(ctx *pipeline.Context) error {
	return pipeline.RunPhases(ctx, pipeline.DeployPhases())
}

// Setup handles the setup command: it runs the full deployment
// pipeline for the selected environment and prints the summary.
func Setup(ctx context.Context, opts SetupOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	profile, err := resolveProfile(cfg, opts.Environment)
	if err != nil {
		return err
	}

	if opts.ImageTag == "" {
		opts.ImageTag = time.Now().UTC().Format("20060102-150405")
	}
	if opts.BuildContextDir == "" {
		opts.BuildContextDir = "."
	}

	log.Printf("Deploying swarm %s to %s", cfg.ClusterName(profile.Environment), profile.Region)

	pctx := pipeline.NewContext(ctx, cfg, profile, pipeline.Options{
		SkipHelm:        opts.SkipHelm,
		ImageTag:        opts.ImageTag,
		BuildContextDir: opts.BuildContextDir,
		WaitTimeout:     opts.WaitTimeout,
	})
	pctx.Terraform = terraform.NewRunner(cfg.TerraformDir)

	cloud, err := newCloudClient(ctx, profile.Region)
	if err != nil {
		return err
	}
	pctx.Cloud = cloud

	publisher, err := newPublisher()
	if err != nil {
		return err
	}
	pctx.Publisher = publisher

	if err := runDeployPipeline(pctx); err != nil {
		return err
	}

	webURL := ""
	if pctx.WebHost != "" {
		webURL = "http://" + pctx.WebHost + ":8089"
	}
	summary := report.Summary{
		ClusterName:         pctx.State.ClusterName,
		Environment:         profile.Environment,
		Region:              pctx.State.Region,
		RegistryURL:         pctx.State.RegistryURL,
		ImageTag:            pctx.State.ImageTag,
		WebURL:              webURL,
		WorkerReplicas:      profile.Workers.Replicas,
		WorkerMaxReplicas:   profile.Workers.MaxReplicas,
		MonitoringInstalled: !opts.SkipHelm,
	}
	report.Print(os.Stdout, summary)
	// The deployment itself succeeded at this point, so a report file
	// problem is only worth a warning.
	if err := report.WriteDocuments(summary); err != nil {
		log.Printf("Warning: %v", err)
	}
	return nil
}

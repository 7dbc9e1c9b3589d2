package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/swarmup/swarmup/internal/kube"
	"github.com/swarmup/swarmup/internal/pipeline"
	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
	"github.com/swarmup/swarmup/internal/state"
	"github.com/swarmup/swarmup/internal/terraform"
)

// CleanupOptions carries the cleanup command flags.
type CleanupOptions struct {
	ConfigPath  string
	Environment string
	Force       bool
	WaitTimeout time.Duration
}

// Function variables replaced in tests.
var (
	confirmTeardown = func(clusterName string) (bool, error) {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return false, fmt.Errorf("refusing to tear down %s without a terminal; pass --force", clusterName)
		}

		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Tear down %s and all its infrastructure?", clusterName)).
					Description("Running load tests are stopped and all data is lost.").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return false, fmt.Errorf("confirmation prompt failed: %w", err)
		}
		return confirmed, nil
	}

	runTeardownPipeline = func(ctx *pipeline.Context) error {
		return pipeline.RunPhases(ctx, pipeline.TeardownPhases())
	}
)

// Cleanup handles the cleanup command. The teardown works from the
// state file when present and falls back to the cluster naming
// convention when it is not, so a lost state file never blocks it.
func Cleanup(ctx context.Context, opts CleanupOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	profile, err := resolveProfile(cfg, opts.Environment)
	if err != nil {
		return err
	}

	clusterName := cfg.ClusterName(profile.Environment)
	if !opts.Force {
		confirmed, err := confirmTeardown(clusterName)
		if err != nil {
			return err
		}
		if !confirmed {
			log.Println("Teardown aborted")
			return nil
		}
	}

	pctx := pipeline.NewContext(ctx, cfg, profile, pipeline.Options{
		Force:       opts.Force,
		WaitTimeout: opts.WaitTimeout,
	})
	pctx.Terraform = terraform.NewRunner(cfg.TerraformDir)

	cloud, err := newCloudClient(ctx, profile.Region)
	if err != nil {
		return err
	}
	pctx.Cloud = cloud

	if st, err := state.Load(pctx.StatePath); err == nil {
		pctx.State = st
	}

	attachClusterClient(pctx, clusterName)

	if err := runTeardownPipeline(pctx); err != nil {
		return err
	}

	log.Printf("Swarm %s torn down", clusterName)
	return nil
}

// attachClusterClient wires a cluster client into the teardown context
// when the cluster is still reachable. A missing kubeconfig is rebuilt
// from the live cluster; a missing cluster just means the workload
// phase has nothing to do.
func attachClusterClient(pctx *pipeline.Context, clusterName string) {
	if _, err := os.Stat(pctx.KubeconfigPath); err != nil {
		info, err := pctx.Cloud.DescribeCluster(pctx, clusterName)
		if err != nil {
			if !errors.Is(err, platformaws.ErrClusterNotFound) {
				log.Printf("Warning: could not look up cluster %s: %v", clusterName, err)
			}
			return
		}
		if err := kube.WriteKubeconfig(pctx.KubeconfigPath, info, pctx.State.Region); err != nil {
			log.Printf("Warning: could not write kubeconfig: %v", err)
			return
		}
	}

	cluster, err := pctx.NewCluster(pctx.KubeconfigPath)
	if err != nil {
		log.Printf("Warning: could not connect to cluster: %v", err)
		return
	}
	pctx.Kube = cluster
}

package handlers

import (
	"context"
	"fmt"

	"github.com/swarmup/swarmup/internal/manifests"
	"github.com/swarmup/swarmup/internal/pipeline"
)

// URL handles the url command.
func URL(ctx context.Context) error {
	cluster, err := newClusterReader(pipeline.DefaultKubeconfigPath)
	if err != nil {
		return fmt.Errorf("cannot reach cluster, is the swarm deployed? %w", err)
	}

	host, err := cluster.ServiceLoadBalancerHost(ctx, manifests.Namespace, manifests.MasterService)
	if err != nil {
		return err
	}
	if host == "" {
		return fmt.Errorf("load balancer is still provisioning, retry shortly or use `swarmup port-forward`")
	}

	fmt.Printf("http://%s:8089\n", host)
	return nil
}

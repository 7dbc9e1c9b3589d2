package pipeline

import (
	"fmt"

	"github.com/swarmup/swarmup/internal/kube"
)

// configurePhase turns the provisioned cluster into a usable target:
// it writes the kubeconfig, builds the cluster clients, and waits for
// the node group to come up.
type configurePhase struct{}

func (p *configurePhase) Name() string    { return "configure" }
func (p *configurePhase) Stage() RunState { return StateConfiguring }

func (p *configurePhase) Run(ctx *Context) error {
	info, err := ctx.Cloud.DescribeCluster(ctx, ctx.State.ClusterName)
	if err != nil {
		return err
	}
	if info.Status != "ACTIVE" {
		return fmt.Errorf("cluster %s is %s, expected ACTIVE", info.Name, info.Status)
	}

	if err := kube.WriteKubeconfig(ctx.KubeconfigPath, info, ctx.State.Region); err != nil {
		return err
	}
	ctx.Observer.Printf("wrote kubeconfig to %s", ctx.KubeconfigPath)

	cluster, err := ctx.NewCluster(ctx.KubeconfigPath)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}
	ctx.Kube = cluster
	if !ctx.Options.SkipHelm {
		ctx.Helm = ctx.NewHelm(ctx.KubeconfigPath)
	}

	minReady := ctx.Profile.NodeGroup.MinSize
	ctx.Observer.Printf("waiting for %d node(s) to become ready...", minReady)
	if err := cluster.WaitForNodesReady(ctx, minReady, ctx.Options.WaitTimeout); err != nil {
		return err
	}

	ctx.State.ClusterEndpoint = info.Endpoint
	return nil
}

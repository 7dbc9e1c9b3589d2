package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	corev1 "k8s.io/api/core/v1"

	"github.com/swarmup/swarmup/internal/manifests"
	"github.com/swarmup/swarmup/internal/pipeline"
	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
	"github.com/swarmup/swarmup/internal/state"
)

// StatusOptions carries the status command flags.
type StatusOptions struct {
	ConfigPath  string
	Environment string
	Namespace   string
	Detailed    bool
}

// Status handles the status command.
func Status(ctx context.Context, opts StatusOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	profile, err := resolveProfile(cfg, opts.Environment)
	if err != nil {
		return err
	}
	clusterName := cfg.ClusterName(profile.Environment)

	st, err := state.Load(state.DefaultPath)
	switch {
	case err == nil:
		printState(st)
	case os.IsNotExist(err):
		// No state file. Check whether the cluster exists anyway, a
		// previous run may have failed after provisioning.
		cloud, cloudErr := newCloudClient(ctx, profile.Region)
		if cloudErr != nil {
			return cloudErr
		}
		info, descErr := cloud.DescribeCluster(ctx, clusterName)
		if errors.Is(descErr, platformaws.ErrClusterNotFound) {
			fmt.Printf("No deployment found for %s\n", clusterName)
			return nil
		}
		if descErr != nil {
			return descErr
		}
		fmt.Printf("No state file, but cluster %s exists (%s)\n", info.Name, info.Status)
		fmt.Println("Run `swarmup setup` to finish the deployment or `swarmup cleanup` to remove it.")
	default:
		return err
	}

	if !opts.Detailed {
		return nil
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = manifests.Namespace
	}
	return printDetails(ctx, namespace)
}

func printState(st *state.Deployment) {
	fmt.Printf("Cluster:     %s\n", st.ClusterName)
	fmt.Printf("Environment: %s\n", st.Environment)
	fmt.Printf("Region:      %s\n", st.Region)
	fmt.Printf("Registry:    %s\n", st.RegistryURL)
	fmt.Printf("Image tag:   %s\n", st.ImageTag)
	if !st.Complete() {
		fmt.Println("State file is incomplete, the last setup run did not finish.")
	}
}

func printDetails(ctx context.Context, namespace string) error {
	cluster, err := newClusterReader(pipeline.DefaultKubeconfigPath)
	if err != nil {
		return fmt.Errorf("cannot reach cluster: %w", err)
	}

	pods, err := cluster.Pods(ctx, namespace, "app.kubernetes.io/name=locust")
	if err != nil {
		return err
	}
	fmt.Printf("\nPods in %s:\n", namespace)
	for _, pod := range pods {
		fmt.Printf("  %-40s %s (%s)\n", pod.Name, pod.Status.Phase, podReadiness(&pod))
	}

	host, err := cluster.ServiceLoadBalancerHost(ctx, namespace, manifests.MasterService)
	if err != nil {
		return err
	}
	if host == "" {
		fmt.Println("\nLoad balancer: provisioning")
	} else {
		fmt.Printf("\nWeb UI: http://%s:8089\n", host)
	}
	return nil
}

func podReadiness(pod *corev1.Pod) string {
	ready := 0
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
	}
	return fmt.Sprintf("%d/%d ready", ready, len(pod.Spec.Containers))
}

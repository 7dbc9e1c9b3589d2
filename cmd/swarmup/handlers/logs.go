package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/swarmup/swarmup/internal/manifests"
	"github.com/swarmup/swarmup/internal/pipeline"
)

// LogsOptions carries the logs command flags.
type LogsOptions struct {
	Component string
	Follow    bool
	Namespace string
	Tail      int64
}

// Logs handles the logs command. It prints logs from every pod of the
// selected component; with --follow only the first pod is streamed.
func Logs(ctx context.Context, opts LogsOptions) error {
	if opts.Component != "master" && opts.Component != "worker" {
		return fmt.Errorf("unknown component %q, expected master or worker", opts.Component)
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = manifests.Namespace
	}

	cluster, err := newClusterReader(pipeline.DefaultKubeconfigPath)
	if err != nil {
		return fmt.Errorf("cannot reach cluster, is the swarm deployed? %w", err)
	}

	selector := "app.kubernetes.io/component=" + opts.Component
	pods, err := cluster.Pods(ctx, namespace, selector)
	if err != nil {
		return err
	}
	if len(pods) == 0 {
		return fmt.Errorf("no %s pods found in namespace %s", opts.Component, namespace)
	}

	if opts.Follow {
		pod := pods[0].Name
		log.Printf("Streaming logs from %s (Ctrl-C to stop)", pod)
		return cluster.PodLogs(ctx, namespace, pod, true, opts.Tail, os.Stdout)
	}

	for _, pod := range pods {
		fmt.Printf("==> %s\n", pod.Name)
		if err := cluster.PodLogs(ctx, namespace, pod.Name, false, opts.Tail, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

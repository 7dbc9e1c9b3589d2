package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/swarmup/swarmup/internal/manifests"
	"github.com/swarmup/swarmup/internal/pipeline"
)

// PortForwardOptions carries the port-forward command flags.
type PortForwardOptions struct {
	Component string
	LocalPort int
	Namespace string
}

// runKubectl executes kubectl attached to the terminal. Function
// variable so tests can intercept the exec.
var runKubectl = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "kubectl", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// PortForward handles the port-forward command by delegating the
// tunnel to kubectl, which handles reconnects and terminal signals.
func PortForward(ctx context.Context, opts PortForwardOptions) error {
	if _, err := os.Stat(pipeline.DefaultKubeconfigPath); err != nil {
		return fmt.Errorf("no kubeconfig found, is the swarm deployed? %w", err)
	}

	namespace := opts.Namespace
	service := "svc/" + manifests.MasterService
	remotePort := 8089
	label := "the Locust web UI"

	switch opts.Component {
	case "", "master":
	case "grafana":
		if namespace == "" {
			namespace = pipeline.MonitoringNamespace
		}
		service = "svc/" + pipeline.MonitoringRelease + "-grafana"
		remotePort = 80
		label = "Grafana"
	default:
		return fmt.Errorf("unknown component %q, expected master or grafana", opts.Component)
	}

	if namespace == "" {
		namespace = manifests.Namespace
	}
	if opts.LocalPort <= 0 {
		opts.LocalPort = remotePort
	}

	log.Printf("Forwarding http://localhost:%d to %s (Ctrl-C to stop)", opts.LocalPort, label)
	return runKubectl(ctx,
		"--kubeconfig", pipeline.DefaultKubeconfigPath,
		"--namespace", namespace,
		"port-forward",
		service,
		fmt.Sprintf("%d:%d", opts.LocalPort, remotePort),
	)
}

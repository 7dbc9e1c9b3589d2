// Package handlers implements the command logic behind the CLI.
//
// Constructors for external clients are function variables so tests can
// swap in fakes without touching the network.
package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/swarmup/swarmup/internal/config"
	"github.com/swarmup/swarmup/internal/kube"
	"github.com/swarmup/swarmup/internal/pipeline"
	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
	"github.com/swarmup/swarmup/internal/registry"
)

// clusterReader covers the live cluster queries the inspection
// commands need. Implemented by kube.Client.
type clusterReader interface {
	Pods(ctx context.Context, namespace, labelSelector string) ([]corev1.Pod, error)
	PodLogs(ctx context.Context, namespace, podName string, follow bool, tail int64, w io.Writer) error
	ServiceLoadBalancerHost(ctx context.Context, namespace, name string) (string, error)
}

// Factory function variables - replaced in tests.
var (
	newCloudClient = func(ctx context.Context, region string) (pipeline.CloudClient, error) {
		return platformaws.NewClient(ctx, region)
	}

	newPublisher = func() (pipeline.ImagePublisher, error) {
		return registry.NewPublisher()
	}

	newClusterReader = func(kubeconfigPath string) (clusterReader, error) {
		return kube.NewClient(kubeconfigPath)
	}
)

// loadConfig loads the project configuration, searching upward from
// the working directory when no explicit path is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

// resolveProfile selects the environment profile. With a single
// configured environment the name may be omitted.
func resolveProfile(cfg *config.Config, env string) (*config.Profile, error) {
	if env == "" {
		names := cfg.EnvironmentNames()
		if len(names) != 1 {
			return nil, fmt.Errorf("multiple environments configured (%s), pass one explicitly",
				strings.Join(names, ", "))
		}
		env = names[0]
	}
	return cfg.Profile(env)
}

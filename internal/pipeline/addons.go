package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/swarmup/swarmup/internal/report"
)

// Addon release coordinates.
const (
	metricsServerRepoURL = "https://kubernetes-sigs.github.io/metrics-server/"
	metricsServerChart   = "metrics-server"
	metricsServerVersion = "3.12.1"

	MonitoringNamespace = "monitoring"
	MonitoringRelease   = "swarm-monitoring"
	monitoringRepoURL   = "https://prometheus-community.github.io/helm-charts"
	monitoringChart     = "kube-prometheus-stack"
	monitoringVersion   = "58.2.2"
)

// addonsPhase installs metrics-server, which the worker autoscaler
// needs for CPU metrics, and the Prometheus and Grafana stack so a
// running test can be observed. Skipped with --skip-helm.
type addonsPhase struct{}

func (p *addonsPhase) Name() string    { return "addons" }
func (p *addonsPhase) Stage() RunState { return "" }

func (p *addonsPhase) Run(ctx *Context) error {
	if ctx.Options.SkipHelm || ctx.Helm == nil {
		ctx.Observer.Printf("skipping addons; the worker autoscaler stays idle without metrics-server")
		return nil
	}

	ctx.Observer.Printf("installing %s...", metricsServerChart)
	if err := ctx.Helm.InstallOrUpgrade("kube-system", "metrics-server", metricsServerRepoURL, metricsServerChart, metricsServerVersion, nil); err != nil {
		return fmt.Errorf("failed to install metrics-server: %w", err)
	}

	password, err := generatePassword()
	if err != nil {
		return err
	}

	values := map[string]interface{}{
		"grafana": map[string]interface{}{
			"adminPassword": password,
		},
		"alertmanager": map[string]interface{}{
			"enabled": false,
		},
	}

	ctx.Observer.Printf("installing %s (this can take a few minutes)...", monitoringChart)
	if err := ctx.Helm.InstallOrUpgrade(MonitoringNamespace, MonitoringRelease, monitoringRepoURL, monitoringChart, monitoringVersion, values); err != nil {
		return fmt.Errorf("failed to install monitoring: %w", err)
	}

	creds := report.MonitoringCredentials{
		Namespace: MonitoringNamespace,
		Release:   MonitoringRelease,
		Username:  "admin",
		Password:  password,
	}
	if err := report.WriteMonitoringEnv(report.MonitoringEnvPath, creds); err != nil {
		return err
	}
	ctx.Observer.Printf("Grafana credentials written to %s", report.MonitoringEnvPath)
	return nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

package report

import (
	"fmt"
	"os"
	"strings"
)

// Paths of the static documents written next to the state file.
const (
	SummaryPath = "swarmup-summary.txt"
	AccessPath  = "swarmup-access.txt"
)

// SummaryDocument returns the deployment summary as plain text, for
// persisting alongside the state file. Unlike Render it carries no
// terminal styling.
func SummaryDocument(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Deployment summary for %s\n\n", s.ClusterName)
	fmt.Fprintf(&b, "Environment:  %s\n", s.Environment)
	fmt.Fprintf(&b, "Region:       %s\n", s.Region)
	fmt.Fprintf(&b, "Registry:     %s\n", s.RegistryURL)
	fmt.Fprintf(&b, "Image tag:    %s\n", s.ImageTag)
	fmt.Fprintf(&b, "Workers:      %d (scales to %d)\n", s.WorkerReplicas, s.WorkerMaxReplicas)
	if s.MonitoringInstalled {
		b.WriteString("Monitoring:   installed (kube-prometheus-stack)\n")
	} else {
		b.WriteString("Monitoring:   skipped\n")
	}

	return b.String()
}

// AccessDocument returns the access instructions as plain text:
// endpoint URLs and where the credentials live.
func AccessDocument(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Access instructions for %s\n\n", s.ClusterName)
	if s.WebURL != "" {
		fmt.Fprintf(&b, "Locust web UI:  %s\n", s.WebURL)
	} else {
		b.WriteString("Locust web UI:  load balancer still provisioning, run: swarmup url\n")
	}
	b.WriteString("Tunnel:         swarmup port-forward    (localhost:8089)\n")
	if s.MonitoringInstalled {
		fmt.Fprintf(&b, "Grafana:        swarmup port-forward --component grafana -p 3000\n")
		fmt.Fprintf(&b, "Grafana login:  see %s\n", MonitoringEnvPath)
	}
	b.WriteString("\nMaster logs:    swarmup logs --follow\n")
	b.WriteString("Teardown:       swarmup cleanup\n")

	return b.String()
}

// WriteDocuments persists both documents next to the state file,
// overwriting what a previous run left behind.
func WriteDocuments(s Summary) error {
	docs := map[string]string{
		SummaryPath: SummaryDocument(s),
		AccessPath:  AccessDocument(s),
	}
	for path, content := range docs {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

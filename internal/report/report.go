// Package report renders the post-deployment summary and persists
// access credentials for the monitoring stack.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	readyStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Summary collects everything worth telling the operator after a
// successful deployment.
type Summary struct {
	ClusterName string
	Environment string
	Region      string
	RegistryURL string
	ImageTag    string

	// WebURL is the Locust web UI address, empty while the load
	// balancer is still provisioning.
	WebURL string

	WorkerReplicas    int
	WorkerMaxReplicas int

	MonitoringInstalled bool
}

// Render returns the formatted summary.
func Render(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Swarm deployed") + "\n")

	b.WriteString(sectionStyle.Render("Cluster") + "\n")
	writeRow(&b, "name", s.ClusterName)
	writeRow(&b, "environment", s.Environment)
	writeRow(&b, "region", s.Region)

	b.WriteString(sectionStyle.Render("Image") + "\n")
	writeRow(&b, "registry", s.RegistryURL)
	writeRow(&b, "tag", s.ImageTag)

	b.WriteString(sectionStyle.Render("Workers") + "\n")
	writeRow(&b, "replicas", fmt.Sprintf("%d (scales to %d)", s.WorkerReplicas, s.WorkerMaxReplicas))

	b.WriteString(sectionStyle.Render("Access") + "\n")
	if s.WebURL != "" {
		b.WriteString("  " + readyStyle.Render(s.WebURL) + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("load balancer provisioning, run: swarmup url") + "\n")
	}
	b.WriteString("  " + dimStyle.Render("or: swarmup port-forward") + "\n")
	if s.MonitoringInstalled {
		b.WriteString("  " + dimStyle.Render("Grafana credentials: "+MonitoringEnvPath) + "\n")
	}

	b.WriteString(sectionStyle.Render("Next steps") + "\n")
	for _, step := range []string{
		"swarmup status        # deployment health",
		"swarmup logs --follow # stream master logs",
		"swarmup cleanup       # tear everything down",
	} {
		b.WriteString("  " + dimStyle.Render(step) + "\n")
	}

	return b.String()
}

// Print writes the rendered summary to w.
func Print(w io.Writer, s Summary) {
	fmt.Fprint(w, Render(s))
}

func writeRow(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "  %s %s\n", dimStyle.Render(key+":"), value)
}

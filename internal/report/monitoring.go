package report

import (
	"fmt"
	"os"
	"strings"
)

// MonitoringEnvPath is where the Grafana credentials are written,
// shell-sourceable like the deployment state file.
const MonitoringEnvPath = "monitoring.env"

// MonitoringCredentials identifies the installed monitoring release
// and its admin login.
type MonitoringCredentials struct {
	Namespace string
	Release   string
	Username  string
	Password  string
}

// WriteMonitoringEnv persists the monitoring credentials to path.
// File mode is 0600, the password is a secret.
func WriteMonitoringEnv(path string, creds MonitoringCredentials) error {
	var b strings.Builder
	b.WriteString("# Grafana access for the swarm monitoring stack.\n")
	b.WriteString("# Port-forward with:\n")
	fmt.Fprintf(&b, "#   kubectl -n %s port-forward svc/%s-grafana 3000:80\n", creds.Namespace, creds.Release)
	fmt.Fprintf(&b, "GRAFANA_NAMESPACE=%q\n", creds.Namespace)
	fmt.Fprintf(&b, "GRAFANA_USER=%q\n", creds.Username)
	fmt.Fprintf(&b, "GRAFANA_PASSWORD=%q\n", creds.Password)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

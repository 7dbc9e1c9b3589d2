// Package state persists deployment outputs between pipeline stages.
//
// The state file is a shell-sourceable key=value file so operators can
// `source .swarmup-state` and use the values directly. It is overwritten
// on every successful provisioning run and removed on teardown. Stages
// that consume it must tolerate its absence and re-derive values from
// the provisioner (see the fallback helpers in the handlers package).
package state

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultPath is the default state file location.
const DefaultPath = ".swarmup-state"

// Deployment holds the outputs of a successful provisioning run.
type Deployment struct {
	ClusterName     string
	ClusterEndpoint string
	RegistryURL     string
	Region          string
	Environment     string
	ImageTag        string
}

// keys in the shell-sourceable file, kept stable for operators who
// source the file from scripts.
const (
	keyClusterName     = "CLUSTER_NAME"
	keyClusterEndpoint = "CLUSTER_ENDPOINT"
	keyRegistryURL     = "REGISTRY_URL"
	keyRegion          = "REGION"
	keyEnvironment     = "ENVIRONMENT"
	keyImageTag        = "IMAGE_TAG"
)

// Save writes the deployment state to path, replacing any previous file.
func Save(path string, d *Deployment) error {
	kv := map[string]string{
		keyClusterName:     d.ClusterName,
		keyClusterEndpoint: d.ClusterEndpoint,
		keyRegistryURL:     d.RegistryURL,
		keyRegion:          d.Region,
		keyEnvironment:     d.Environment,
		keyImageTag:        d.ImageTag,
	}

	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("# Generated by swarmup. Safe to source from a shell.\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%q\n", k, kv[k])
	}

	// Write-then-rename so a crash mid-write never leaves a truncated
	// state file behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Load reads the deployment state from path. A missing file returns
// os.ErrNotExist so callers can fall back to re-derivation.
func Load(path string) (*Deployment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := &Deployment{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case keyClusterName:
			d.ClusterName = value
		case keyClusterEndpoint:
			d.ClusterEndpoint = value
		case keyRegistryURL:
			d.RegistryURL = value
		case keyRegion:
			d.Region = value
		case keyEnvironment:
			d.Environment = value
		case keyImageTag:
			d.ImageTag = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	return d, nil
}

// Remove deletes the state file. A file that is already gone is success.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// Complete reports whether the state carries enough to address the
// cluster and registry without re-derivation.
func (d *Deployment) Complete() bool {
	return d.ClusterName != "" && d.RegistryURL != "" && d.Region != ""
}

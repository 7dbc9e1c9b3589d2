// Package main is the entry point for the swarmup CLI.
//
// swarmup deploys a distributed Locust load-testing swarm onto Amazon
// EKS: it provisions the infrastructure with terraform, publishes the
// Locust image to ECR, and rolls out the master and worker deployments.
//
// Commands: setup, cleanup, status, logs, url, validate, port-forward.
//
// For detailed usage information, run:
//
//	swarmup --help
package main

import (
	"fmt"
	"os"

	"github.com/swarmup/swarmup/cmd/swarmup/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

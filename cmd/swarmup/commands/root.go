// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the swarmup CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swarmup",
		Short: "Deploy a distributed Locust swarm on Amazon EKS",
	}

	// Lifecycle commands
	cmd.AddCommand(Setup())
	cmd.AddCommand(Cleanup())
	cmd.AddCommand(Validate())

	// Inspection commands
	cmd.AddCommand(Status())
	cmd.AddCommand(Logs())
	cmd.AddCommand(URL())
	cmd.AddCommand(PortForward())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

package prereq

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// PromptCredentialSetup offers the operator a single interactive chance
// to fix missing AWS credentials by running `aws configure`. On a
// non-interactive terminal it declines immediately so CI runs fail fast.
func PromptCredentialSetup(ctx context.Context) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("AWS credentials missing and no terminal available for interactive setup")
	}

	var configure bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("AWS credentials are missing or invalid.").
				Description("Run `aws configure` now to set them up?").
				Value(&configure),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("credential prompt failed: %w", err)
	}
	if !configure {
		return fmt.Errorf("AWS credentials are required; run `aws configure` and retry")
	}

	cmd := exec.CommandContext(ctx, "aws", "configure")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("aws configure failed: %w", err)
	}
	return nil
}

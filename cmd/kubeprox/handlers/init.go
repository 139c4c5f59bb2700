package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/config/wizard"
	"github.com/imamik/kubeprox/internal/crypto/password"
)

// InitOptions controls the init command.
type InitOptions struct {
	OutputPath string

	// Advanced adds the network and publishing questions.
	Advanced bool

	// NonInteractive writes the defaults without asking.
	NonInteractive bool
}

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardWriteConfig      = wizard.WriteConfig
	generatePassword       = password.Generate

	// stdinIsTerminal reports whether the wizard can prompt.
	stdinIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
)

// Init writes a starter configuration. On a terminal it runs the
// interactive wizard; otherwise, or with NonInteractive, it writes the
// defaults with a generated password.
func Init(ctx context.Context, opts InitOptions) error {
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = config.DefaultConfigFile
	}

	interactive := !opts.NonInteractive && stdinIsTerminal()

	if wizardFileExists(outputPath) {
		if !interactive {
			return fmt.Errorf("%s already exists, remove it or choose another path with --output", outputPath)
		}
		overwrite, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !overwrite {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var result *wizard.WizardResult
	if interactive {
		printWelcome(opts.Advanced)

		var err error
		result, err = wizardRunWizard(ctx, opts.Advanced)
		if err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
	} else {
		result = wizard.NewDefaultResult()
	}

	generated := false
	if result.Password == "" {
		pw, err := generatePassword(password.DefaultLength)
		if err != nil {
			return err
		}
		result.Password = pw
		generated = true
	}

	cfg := wizard.BuildConfig(result)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := wizardWriteConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg, generated)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome(advanced bool) {
	fmt.Println()
	fmt.Println("kubeprox - Kubernetes on Proxmox")
	fmt.Println("================================")
	fmt.Println()
	fmt.Println("This wizard will help you create a cluster configuration file.")
	if advanced {
		fmt.Println("Running in advanced mode with network and publishing options.")
	}
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config, generatedPassword bool) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Cluster Summary")
	fmt.Println("---------------")
	fmt.Printf("  Name:      %s\n", cfg.ClusterName)
	fmt.Printf("  Domain:    %s\n", cfg.Network.Domain)
	fmt.Printf("  Network:   %s\n", cfg.Network.NodeCIDR)
	fmt.Printf("  Masters:   %d x %d cores, %d MB\n", cfg.Master.Count, cfg.Master.Cores, cfg.Master.Memory)
	fmt.Printf("  Workers:   %d x %d cores, %d MB (%s)\n", cfg.Worker.Count, cfg.Worker.Cores, cfg.Worker.Memory, cfg.Expansion.WorkerCount)
	if generatedPassword {
		fmt.Println("  Password:  generated, stored in the file")
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Inspect the planned nodes:")
	fmt.Printf("     kubeprox plan -c %s\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Build the VM template and create the cluster:")
	fmt.Printf("     kubeprox template -c %s --apply\n", outputPath)
	fmt.Printf("     kubeprox apply -c %s\n", outputPath)
	fmt.Println()
}

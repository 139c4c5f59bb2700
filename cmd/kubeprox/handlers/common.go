// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/logging"
	"github.com/imamik/kubeprox/internal/platform/netinfo"
	"github.com/imamik/kubeprox/internal/platform/s3"
	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/provisioning/ansible"
	"github.com/imamik/kubeprox/internal/topology"
	"github.com/imamik/kubeprox/internal/util/keygen"
	"github.com/imamik/kubeprox/internal/util/naming"
	"github.com/imamik/kubeprox/internal/util/prerequisites"
	"github.com/imamik/kubeprox/internal/util/retry"
)

// logOptions is set once by the root command.
var logOptions = logging.Options{Format: logging.FormatConsole}

// SetLogOptions configures the logger every handler writes to.
func SetLogOptions(opts logging.Options) {
	logOptions = opts
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// newLogger creates the run logger.
	newLogger = func() (logr.Logger, error) {
		return logging.New(os.Stderr, logOptions)
	}

	// newLookup creates the host lookups used by the compiler.
	newLookup = func(t *config.Timeouts) topology.Lookup {
		return netinfo.NewHost(netinfo.NewPublicIPResolver(
			retry.WithMaxRetries(t.RetryMaxAttempts),
			retry.WithInitialDelay(t.RetryInitialDelay),
		))
	}

	// newEngine creates the provisioning engine.
	newEngine = func() provisioning.Engine {
		return ansible.NewEngine()
	}

	// newPublisher creates the artifact publisher for cfg.Publish.
	newPublisher = func(ctx context.Context, cfg *config.Config) (provisioning.Publisher, error) {
		client, err := s3.NewClient(ctx, cfg.Publish.Endpoint, cfg.Publish.Region)
		if err != nil {
			return nil, err
		}
		return s3.NewPublisher(client, cfg.Publish.Bucket, path.Join(cfg.Publish.Prefix, cfg.ClusterName)), nil
	}

	// loadOrGenerateKey loads or creates the node access key pair.
	loadOrGenerateKey = keygen.LoadOrGenerate

	// applyTools lists the tools checked before applying.
	applyTools = prerequisites.ApplyTools

	// stdoutIsTerminal reports whether styled output should be used.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// loadConfig loads and validates the cluster configuration.
// If configPath is empty, it looks for kubeprox.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = config.DefaultConfigFile
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w\nRun 'kubeprox init' to create one", err)
		}
		return nil, err
	}

	return cfg, nil
}

// newObserver creates the observer every phase reports to.
func newObserver() (provisioning.Observer, error) {
	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return provisioning.NewLogObserver(log), nil
}

// newCompiler creates the topology compiler. Offline runs perform no host
// lookups and rely on the configured fallbacks.
func newCompiler(offline bool, t *config.Timeouts) *topology.Compiler {
	var lookup topology.Lookup
	if !offline {
		lookup = newLookup(t)
	}
	return topology.NewCompiler(lookup, topology.WithLookupTimeouts(t.PublicIP, t.DNS))
}

// ensureSSHKey fills proxmox.ssh_public_key from the key pair stored in the
// output directory, generating one on first use.
func ensureSSHKey(cfg *config.Config, observer provisioning.Observer) error {
	if cfg.Proxmox.SSHPublicKey != "" {
		return nil
	}

	dir := naming.SSHDir(cfg.OutputDir)
	kp, created, err := loadOrGenerateKey(dir, "kubeprox@"+cfg.ClusterName)
	if err != nil {
		return fmt.Errorf("failed to prepare SSH key: %w", err)
	}
	if created {
		observer.Printf("generated SSH key pair in %s", dir)
	}

	cfg.Proxmox.SSHPublicKey = strings.TrimSpace(string(kp.PublicKey))
	return nil
}

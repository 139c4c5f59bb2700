package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/platform/ssh"
	"github.com/imamik/kubeprox/internal/render"
	"github.com/imamik/kubeprox/internal/topology"
	"github.com/imamik/kubeprox/internal/util/keygen"
	"github.com/imamik/kubeprox/internal/util/naming"
	"github.com/imamik/kubeprox/internal/util/netutil"
)

const (
	// adminKubeconfigPath is written by the master-init script.
	adminKubeconfigPath = "/etc/kubernetes/admin.conf"

	// nodeUser is the account the cloud-init user-data creates on every node.
	nodeUser = "kubeprox"

	kubeconfigFile = "kubeconfig"
)

// RemoteFileReader reads files from a cluster node.
type RemoteFileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// newRemoteReader creates an SSH connection factory for a node.
var newRemoteReader = func(cfg *ssh.Config) (RemoteFileReader, error) {
	return ssh.NewClient(cfg)
}

var waitForPort = netutil.WaitForPort

// KubeconfigOptions controls the kubeconfig command.
type KubeconfigOptions struct {
	ConfigPath string

	// Host overrides the MASTER_INIT node address.
	Host string
	Port int

	// KnownHostsFile pins the node host key; empty accepts any key.
	KnownHostsFile string

	// OutputPath defaults to <output_dir>/kubeconfig.
	OutputPath string

	// Wait, when positive, blocks until the Kubernetes API address accepts
	// connections before fetching.
	Wait time.Duration
}

// Kubeconfig fetches the admin kubeconfig from the MASTER_INIT node over
// SSH, using the key pair kept in the output directory.
func Kubeconfig(ctx context.Context, opts KubeconfigOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	host := opts.Host
	if host == "" {
		if host, err = masterInitHost(cfg); err != nil {
			return err
		}
	}

	if opts.Wait > 0 {
		if err := waitForKubeAPI(ctx, cfg, opts.Wait); err != nil {
			return err
		}
	}

	keyPath := keygen.PrivateKeyPath(naming.SSHDir(cfg.OutputDir))
	// #nosec G304
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH private key: %w", err)
	}

	client, err := newRemoteReader(&ssh.Config{
		Host:           host,
		Port:           opts.Port,
		User:           nodeUser,
		PrivateKey:     key,
		KnownHostsFile: opts.KnownHostsFile,
	})
	if err != nil {
		return err
	}

	data, err := client.ReadFile(ctx, adminKubeconfigPath)
	if err != nil {
		return fmt.Errorf("failed to fetch kubeconfig from %s: %w", host, err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = filepath.Join(cfg.OutputDir, kubeconfigFile)
	}
	if err := render.WriteFile(outputPath, data); err != nil {
		return err
	}

	fmt.Printf("Kubeconfig written to %s\n", outputPath)
	fmt.Printf("  export KUBECONFIG=%s\n", outputPath)
	return nil
}

// masterInitHost returns the DNS name the router serves for the MASTER_INIT node.
func masterInitHost(cfg *config.Config) (string, error) {
	slots, err := topology.Expand(cfg, topology.NewSequence(1))
	if err != nil {
		return "", err
	}
	for _, slot := range slots {
		if slot.Role == topology.MasterInit {
			return naming.DNSName(slot.Hostname) + "." + cfg.Network.Domain, nil
		}
	}
	return "", errors.New("configuration has no MASTER_INIT node")
}

func waitForKubeAPI(ctx context.Context, cfg *config.Config, timeout time.Duration) error {
	addr, err := topology.Allocate(cfg.Network.NodeCIDR, topology.K8SAPI)
	if err != nil {
		return err
	}
	fmt.Printf("Waiting for the Kubernetes API at %s:%d...\n", addr, netutil.KubeAPIPort)
	if err := waitForPort(ctx, addr, netutil.KubeAPIPort, timeout, 5*time.Second); err != nil {
		return fmt.Errorf("kubernetes API not reachable: %w", err)
	}
	return nil
}

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/topology"
	"github.com/imamik/kubeprox/internal/util/prerequisites"
)

// saveAndRestoreFactories saves and restores every handler factory and
// installs quiet defaults for tests.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()

	origLoadConfigFile := loadConfigFile
	origNewLogger := newLogger
	origNewLookup := newLookup
	origNewEngine := newEngine
	origNewPublisher := newPublisher
	origLoadOrGenerateKey := loadOrGenerateKey
	origApplyTools := applyTools
	origStdoutIsTerminal := stdoutIsTerminal
	origNewRemoteReader := newRemoteReader
	origWaitForPort := waitForPort

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		newLogger = origNewLogger
		newLookup = origNewLookup
		newEngine = origNewEngine
		newPublisher = origNewPublisher
		loadOrGenerateKey = origLoadOrGenerateKey
		applyTools = origApplyTools
		stdoutIsTerminal = origStdoutIsTerminal
		newRemoteReader = origNewRemoteReader
		waitForPort = origWaitForPort
	})

	newLogger = func() (logr.Logger, error) { return logr.Discard(), nil }
	newLookup = func(*config.Timeouts) topology.Lookup {
		t.Error("host lookup used in an offline test")
		return nil
	}
	newEngine = func() provisioning.Engine {
		t.Error("engine created in a render-only test")
		return &fakeEngine{}
	}
	applyTools = func() []prerequisites.Tool { return nil }
	stdoutIsTerminal = func() bool { return false }
}

// writeTestConfig writes a valid configuration whose output directory is
// inside a temp dir and returns the config path and output directory.
func writeTestConfig(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	outDir := filepath.Join(dir, "generated")
	path := filepath.Join(dir, "kubeprox.yaml")

	doc := fmt.Sprintf(`cluster_name: homelab
network:
  domain: k8s.lan
  node_cidr: 10.0.0.0/24
  pod_cidr: 10.244.0.0/16
  service_cidr: 10.96.0.0/12
  vpn_cidr: 10.8.0.0/24
  public_ip: 203.0.113.10
  dns_servers: [1.1.1.1, 9.9.9.9]
proxmox:
  storage_target: local-lvm
  network_bridge: vmbr1
  password: correct-horse
  vm_template_id: 9000
  vm_id_start: 100
master: {count: 3, cores: 2, memory: 4096, storage: 32}
worker: {count: 2, cores: 4, memory: 8192, storage: 64}
output_dir: %s
%s`, outDir, extra)

	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
	return path, outDir
}

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

type fakeEngine struct {
	stats map[string]provisioning.TargetStats
	err   error

	requests []provisioning.RunRequest
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Run(_ context.Context, req provisioning.RunRequest, onEvent func(provisioning.TaskEvent)) (map[string]provisioning.TargetStats, error) {
	e.requests = append(e.requests, req)
	onEvent(provisioning.TaskEvent{Kind: string(provisioning.EventTaskStarted), Task: "Create VM"})
	return e.stats, e.err
}

type fakePublisher struct {
	dir  string
	keys []string
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, dir string) ([]string, error) {
	p.dir = dir
	return p.keys, p.err
}

package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/topology"
)

func TestRenderPlanTable_Plain(t *testing.T) {
	plan := &topology.Plan{
		ClusterName: "homelab",
		Domain:      "k8s.lan",
		Facts:       topology.Facts{PublicIP: "203.0.113.10", DNSPrimary: "1.1.1.1", DNSSecondary: "9.9.9.9", KubernetesAPI: "10.0.0.5"},
		Nodes: []topology.NodeInstance{
			{ID: 1, VMID: 100, Hostname: "ROUTER-1", Role: topology.Router, IP: "10.0.0.1", Sizing: topology.Sizing{Cores: 2, Memory: 2048, Storage: 8}},
			{ID: 5, VMID: 104, Hostname: "MASTER_INIT-5", Role: topology.MasterInit, Sizing: topology.Sizing{Cores: 4, Memory: 8192, Storage: 64}},
		},
		Warnings: []string{"public IP lookup failed, using network.public_ip"},
	}

	out := renderPlanTable(plan, false)

	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "  ID  HOSTNAME       ROLE         VMID  CORES  MEMORY   DISK   ADDRESS\n")
	assert.Contains(t, out, "  1   ROUTER-1       ROUTER       100   2      2048 MB  8 GB   10.0.0.1\n")
	assert.Contains(t, out, "  5   MASTER_INIT-5  MASTER_INIT  104   4      8192 MB  64 GB  dhcp\n")
	assert.Contains(t, out, "Kubernetes API: 10.0.0.5")
	assert.Contains(t, out, "! public IP lookup failed")
}

func TestRenderRunSummary(t *testing.T) {
	cfg := &config.Config{ClusterName: "homelab", OutputDir: "generated"}
	state := &provisioning.State{
		Instances: []provisioning.InstanceResult{
			{Hostname: "ROUTER-1", State: provisioning.StateRendered},
			{Hostname: "NFS-3", State: provisioning.StateFailed, Err: errors.New("missing variable NFS_EXPORT")},
		},
		Result: &provisioning.Result{
			RunID:               "run-1",
			Duration:            1500 * time.Millisecond,
			Targets:             map[string]provisioning.TargetStats{"pve": {OK: 1}, "worker-8": {Unreachable: 1}},
			OK:                  []string{"pve"},
			FailedOrUnreachable: []string{"worker-8"},
		},
	}

	out := renderRunSummary(cfg, state, false)

	assert.Contains(t, out, "kubeprox: homelab")
	assert.Contains(t, out, "Rendered:  1 of 2 node(s) into generated")
	assert.Contains(t, out, "✗ NFS-3: missing variable NFS_EXPORT")
	assert.Contains(t, out, "(run run-1, 1.5s)")
	assert.Contains(t, out, "✓ pve")
	assert.Contains(t, out, "✗ worker-8 (failed=0 unreachable=1)")
	assert.NotContains(t, out, "Published")
}

func TestPrintRunSummary_SkipsWithoutPlan(t *testing.T) {
	saveAndRestoreFactories(t)
	output := captureOutput(func() {
		printRunSummary(&config.Config{ClusterName: "homelab"}, provisioning.NewState())
	})
	assert.Empty(t, output)
}

package render

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/templates"
)

func TestBuildInventory(t *testing.T) {
	t.Parallel()
	plan := compilePlan(t, t.TempDir())
	inv := BuildInventory(plan, "pve")

	assert.Equal(t, "pve", inv.All.Vars["proxmox_node"])
	assert.Contains(t, inv.All.Children[HypervisorGroup].Hosts, "pve")

	router := inv.All.Children["router"].Hosts["router-1"]
	assert.Equal(t, "10.0.0.1", router["ansible_host"])
	assert.Equal(t, "100", router["vmid"])

	joins := inv.All.Children["master_join"].Hosts
	assert.Len(t, joins, 2)
	assert.Equal(t, "master-join-6.k8s.lan", joins["master-join-6"]["ansible_host"])
}

func TestWriteInventoryAndManifest(t *testing.T) {
	t.Parallel()
	plan := compilePlan(t, t.TempDir())

	invPath, err := WriteInventory(plan, "pve")
	require.NoError(t, err)
	data, err := os.ReadFile(invPath)
	require.NoError(t, err)
	var inv Inventory
	require.NoError(t, yaml.Unmarshal(data, &inv))
	assert.Len(t, inv.All.Children["worker"].Hosts, 2)

	manifestPath, err := WriteManifest(plan)
	require.NoError(t, err)
	data, err = os.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hostname: MASTER_INIT-5")
	assert.Contains(t, string(data), "public_ip: 203.0.113.7")
	assert.NotContains(t, string(data), "secret")
}

func TestRenderTemplatePlaybook(t *testing.T) {
	t.Parallel()
	plan := compilePlan(t, t.TempDir())

	path, err := RenderTemplatePlaybook(NewRenderer(templates.FS()), plan)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `qm, create, "9000"`)
	assert.Contains(t, string(data), "virtio,bridge=vmbr1")
	assert.NotContains(t, string(data), "${")
}

func TestPhase_Provision(t *testing.T) {
	t.Parallel()
	plan := compilePlan(t, t.TempDir())
	ctx := provisioning.NewContext(context.Background(), &config.Config{OutputDir: plan.OutputDir, Proxmox: config.ProxmoxConfig{Node: "pve"}}, &recordingObserver{})
	ctx.State.Plan = plan

	require.NoError(t, NewPhase(NewRenderer(templates.FS()), false).Provision(ctx))
	assert.Len(t, ctx.State.Playbooks, len(plan.Nodes))
	assert.FileExists(t, ctx.State.TemplatePlaybook)
	assert.FileExists(t, ctx.State.Inventory)
	assert.Equal(t, "render", NewPhase(nil, false).Name())
}

func TestPhase_PartialFailure(t *testing.T) {
	t.Parallel()
	fsys := overlay(t, templates.FS(), "scripts/nfs.sh", "${MISSING}")

	for _, allowPartial := range []bool{false, true} {
		plan := compilePlan(t, t.TempDir())
		ctx := provisioning.NewContext(context.Background(), &config.Config{OutputDir: plan.OutputDir, Proxmox: config.ProxmoxConfig{Node: "pve"}}, &recordingObserver{})
		ctx.State.Plan = plan

		err := NewPhase(NewRenderer(fsys), allowPartial).Provision(ctx)
		if allowPartial {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "1 of 9 node(s) failed")
		}
		assert.Len(t, ctx.State.Playbooks, len(plan.Nodes)-1)
		require.Len(t, ctx.State.Failed(), 1)
		assert.Equal(t, "NFS-3", ctx.State.Failed()[0].Hostname)
	}
}

func TestPhase_RequiresPlan(t *testing.T) {
	t.Parallel()
	ctx := provisioning.NewContext(context.Background(), &config.Config{}, &recordingObserver{})
	assert.Error(t, NewPhase(NewRenderer(templates.FS()), false).Provision(ctx))
}

package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/topology"
)

func offlineConfig() *config.Config {
	cfg := &config.Config{
		Network: config.NetworkConfig{
			Domain:      "k8s.lan",
			NodeCIDR:    "10.0.0.0/24",
			PodCIDR:     "10.244.0.0/16",
			ServiceCIDR: "10.96.0.0/12",
			VPNCIDR:     "10.8.0.0/24",
			PublicIP:    "203.0.113.10",
			DNSServers:  []string{"1.1.1.1", "9.9.9.9"},
		},
		Proxmox: config.ProxmoxConfig{
			StorageTarget: "local-lvm",
			NetworkBridge: "vmbr1",
			Password:      "secret",
			SSHPublicKey:  "ssh-ed25519 AAAA test",
			VMTemplateID:  9000,
			VMIDStart:     100,
		},
		Master: config.NodePoolConfig{Count: 3, Cores: 2, Memory: 4096, Storage: 32},
		Worker: config.NodePoolConfig{Count: 2, Cores: 4, Memory: 8192, Storage: 64},
	}
	cfg.ApplyDefaults()
	return cfg
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

func TestCompilePhase_PopulatesPlan(t *testing.T) {
	t.Parallel()
	observer := NewMockObserver()
	ctx := NewContext(context.Background(), offlineConfig(), observer)
	recorder := &fakeRecorder{}
	ctx.Metrics = recorder

	phase := NewCompilePhase(topology.NewCompiler(nil))
	assert.Equal(t, PhaseCompile, phase.Name())
	require.NoError(t, phase.Provision(ctx))

	require.NotNil(t, ctx.State.Plan)
	assert.Len(t, ctx.State.Plan.Nodes, 8)
	assert.Len(t, observer.EventsOfType(EventNodePlanned), 8)
	assert.Equal(t, 2, recorder.planned["MASTER_JOIN"])
	assert.Equal(t, 1, recorder.planned["WORKER"])

	warnings := observer.EventsOfType(EventWarning)
	assert.Len(t, warnings, len(ctx.State.Plan.Warnings))
	assert.NotEmpty(t, warnings, "offline compile falls back to configured facts")
}

func TestCompilePhase_InvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := offlineConfig()
	cfg.Network.NodeCIDR = "not-a-cidr"
	ctx := NewContext(context.Background(), cfg, NewMockObserver())

	err := NewCompilePhase(topology.NewCompiler(nil)).Provision(ctx)
	require.Error(t, err)
	assert.Nil(t, ctx.State.Plan)
}

func TestPublishPhase(t *testing.T) {
	t.Parallel()
	observer := NewMockObserver()
	cfg := offlineConfig()
	ctx := NewContext(context.Background(), cfg, observer)
	publisher := &fakePublisher{keys: []string{"lab/plan.yaml", "lab/inventory.yaml"}}

	require.NoError(t, NewPublishPhase(publisher).Provision(ctx))
	assert.Equal(t, cfg.OutputDir, publisher.dir)
	assert.Equal(t, publisher.keys, ctx.State.Published)
	assert.Len(t, observer.EventsOfType(EventArtifactPublished), 2)

	publisher.err = errors.New("denied")
	assert.EqualError(t, NewPublishPhase(publisher).Provision(ctx), "denied")
}

func TestApplyPhase_PrependsTemplatePlaybook(t *testing.T) {
	t.Parallel()
	paths := writePlaybooks(t, "vm-template.yaml", "router.yaml", "vpn.yaml")
	engine := &fakeEngine{stats: map[string]TargetStats{"pve": {OK: 4}}}
	observer := NewMockObserver()
	ctx := NewContext(context.Background(), offlineConfig(), observer)
	ctx.State.TemplatePlaybook = paths[0]
	ctx.State.Playbooks = paths[1:]
	ctx.State.Instances = []InstanceResult{
		{Hostname: "ROUTER-1", State: StateRendered},
		{Hostname: "VPN-2", State: StateRendered},
		{Hostname: "NFS-3", State: StateFailed, Err: assert.AnError},
	}

	phase := NewApplyPhase(NewRunner(engine, observer))
	assert.Equal(t, PhaseApply, phase.Name())
	require.NoError(t, phase.Provision(ctx))

	assert.Equal(t, paths, engine.req.Playbooks)
	require.NotNil(t, ctx.State.Result)
	assert.Equal(t, []string{"pve"}, ctx.State.Result.OK)

	warnings := observer.EventsOfType(EventWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "skipping NFS-3: render failed", warnings[0].Message)
}

func TestApplyPhase_NothingRendered(t *testing.T) {
	t.Parallel()
	ctx := NewContext(context.Background(), offlineConfig(), NewMockObserver())

	err := NewApplyPhase(NewRunner(&fakeEngine{}, NewMockObserver())).Provision(ctx)
	require.EqualError(t, err, "no rendered playbooks to apply")
}

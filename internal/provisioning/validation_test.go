package provisioning

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/util/prerequisites"
)

func TestValidationPhase_Passes(t *testing.T) {
	t.Parallel()
	cfg := offlineConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "generated")
	observer := NewMockObserver()

	phase := NewValidationPhase()
	assert.Equal(t, PhaseValidation, phase.Name())
	require.NoError(t, phase.Provision(NewContext(context.Background(), cfg, observer)))
	assert.Empty(t, observer.EventsOfType(EventWarning))
}

func TestValidationPhase_SchemaErrorComesFirst(t *testing.T) {
	t.Parallel()
	cfg := offlineConfig()
	cfg.Proxmox.Password = ""

	err := NewValidationPhase().Provision(NewContext(context.Background(), cfg, NewMockObserver()))
	require.Error(t, err)

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "proxmox.password", verr.Field)
}

func TestValidationPhase_Checks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		mutate      func(t *testing.T, cfg *config.Config)
		tools       []prerequisites.Tool
		wantErr     string
		wantWarning string
	}{
		{
			name: "overlapping vpn and node ranges",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Network.VPNCIDR = "10.0.0.0/25"
			},
			wantErr: "10.0.0.0/25 overlaps network.node_cidr (10.0.0.0/24)",
		},
		{
			name: "overlapping pod and service ranges",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Network.ServiceCIDR = "10.244.128.0/20"
			},
			wantErr: "network.service_cidr",
		},
		{
			name: "output dir is a file",
			mutate: func(t *testing.T, cfg *config.Config) {
				path := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(path, nil, 0600))
				cfg.OutputDir = path
			},
			wantErr: "exists and is not a directory",
		},
		{
			name:    "missing required tool",
			tools:   []prerequisites.Tool{{Name: "nonexistent-tool-xyz123", Required: true, InstallURL: "https://example.com"}},
			wantErr: "nonexistent-tool-xyz123 not found in PATH",
		},
		{
			name:        "missing optional tool",
			tools:       []prerequisites.Tool{{Name: "nonexistent-tool-xyz123", Description: "debugging"}},
			wantWarning: "optional tool nonexistent-tool-xyz123 not found in PATH (debugging)",
		},
		{
			name: "even master count",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Master.Count = 4
			},
			wantWarning: "4 masters tolerate no more failures than 3",
		},
		{
			name: "legacy single worker",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Worker.Count = 1
			},
			wantWarning: "worker.count 1 yields no worker nodes",
		},
		{
			name: "no ssh key",
			mutate: func(_ *testing.T, cfg *config.Config) {
				cfg.Proxmox.SSHPublicKey = ""
			},
			wantWarning: "no SSH public key configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := offlineConfig()
			cfg.OutputDir = filepath.Join(t.TempDir(), "generated")
			if tt.mutate != nil {
				tt.mutate(t, cfg)
			}
			observer := NewMockObserver()

			err := NewValidationPhase(tt.tools...).Provision(NewContext(context.Background(), cfg, observer))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			warnings := observer.EventsOfType(EventWarning)
			require.Len(t, warnings, 1)
			assert.Contains(t, warnings[0].Message, tt.wantWarning)
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	ve := ValidationError{Field: "master.count", Message: "even", Severity: SeverityWarning}
	assert.Equal(t, "[warning] master.count: even", ve.Error())
	assert.False(t, ve.IsError())
	assert.True(t, ValidationError{Severity: SeverityError}.IsError())
}

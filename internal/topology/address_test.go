package topology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cidr     string
		role     Role
		expected string
	}{
		{name: "router", cidr: "10.0.0.0/24", role: Router, expected: "10.0.0.1"},
		{name: "vpn", cidr: "10.0.0.0/24", role: VPN, expected: "10.0.0.2"},
		{name: "nfs", cidr: "10.0.0.0/24", role: NFS, expected: "10.0.0.3"},
		{name: "lb", cidr: "10.0.0.0/24", role: LB, expected: "10.0.0.4"},
		{name: "k8s api", cidr: "10.0.0.0/24", role: K8SAPI, expected: "10.0.0.5"},
		{name: "host bits ignored", cidr: "192.168.10.77/24", role: LB, expected: "192.168.10.4"},
		{name: "wide network", cidr: "172.16.0.0/12", role: Router, expected: "172.16.0.1"},
		{name: "smallest fitting network", cidr: "10.1.1.0/29", role: K8SAPI, expected: "10.1.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Allocate(tt.cidr, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAllocate_ElasticRolesHaveNoFixedAddress(t *testing.T) {
	t.Parallel()
	for _, role := range []Role{MasterInit, MasterJoin, Worker, Role("BOGUS")} {
		_, err := Allocate("10.0.0.0/24", role)
		require.Error(t, err, role)

		var roleErr *InvalidRoleError
		require.True(t, errors.As(err, &roleErr))
		assert.Equal(t, role, roleErr.Role)
		assert.ErrorIs(t, err, ErrAddressAllocation)
	}
}

func TestAllocate_InvalidCIDR(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cidr string
	}{
		{name: "garbage", cidr: "not-a-cidr"},
		{name: "missing prefix length", cidr: "10.0.0.0"},
		{name: "ipv6", cidr: "fd00::/64"},
		{name: "offset hits broadcast", cidr: "10.0.0.0/30"},
		{name: "single host", cidr: "10.0.0.1/32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Allocate(tt.cidr, LB)
			require.Error(t, err)

			var cidrErr *InvalidCIDRError
			require.True(t, errors.As(err, &cidrErr))
			assert.Equal(t, tt.cidr, cidrErr.CIDR)
			assert.ErrorIs(t, err, ErrAddressAllocation)
		})
	}
}

func TestHasFixedAddress(t *testing.T) {
	t.Parallel()
	assert.True(t, HasFixedAddress(Router))
	assert.True(t, HasFixedAddress(K8SAPI))
	assert.False(t, HasFixedAddress(Worker))
}

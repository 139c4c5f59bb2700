package config

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIDRHost(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		prefix   string
		hostnum  int
		expected string
		wantErr  bool
	}{
		{name: "first host", prefix: "10.0.0.0/24", hostnum: 1, expected: "10.0.0.1"},
		{name: "dhcp start", prefix: "10.0.0.0/24", hostnum: 6, expected: "10.0.0.6"},
		{name: "last usable", prefix: "10.0.0.0/24", hostnum: -2, expected: "10.0.0.254"},
		{name: "unmasked input", prefix: "192.168.1.77/24", hostnum: 4, expected: "192.168.1.4"},
		{name: "crosses octet", prefix: "10.0.0.0/16", hostnum: 300, expected: "10.0.1.44"},
		{name: "out of range", prefix: "10.0.0.0/29", hostnum: 8, wantErr: true},
		{name: "negative out of range", prefix: "10.0.0.0/29", hostnum: -9, wantErr: true},
		{name: "invalid", prefix: "bogus", hostnum: 1, wantErr: true},
		{name: "ipv6", prefix: "fd00::/64", hostnum: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CIDRHost(tt.prefix, tt.hostnum)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNetmask(t *testing.T) {
	t.Parallel()
	mask, err := Netmask("10.8.0.0/24")
	require.NoError(t, err)
	assert.Equal(t, "255.255.255.0", mask)

	mask, err = Netmask("10.0.0.0/20")
	require.NoError(t, err)
	assert.Equal(t, "255.255.240.0", mask)

	_, err = Netmask("10.0.0.0")
	assert.Error(t, err)
}

func TestNetworkAddress(t *testing.T) {
	t.Parallel()
	addr, err := NetworkAddress("10.8.3.9/16")
	require.NoError(t, err)
	assert.Equal(t, "10.8.0.0", addr)

	_, err = NetworkAddress("fd00::/8")
	assert.Error(t, err)
}

func TestUsableHosts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prefix   string
		expected int
	}{
		{"10.0.0.0/24", 254},
		{"10.0.0.0/29", 6},
		{"10.0.0.0/30", 2},
		{"10.0.0.0/31", 0},
		{"10.0.0.1/32", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, UsableHosts(netip.MustParsePrefix(tt.prefix)), tt.prefix)
	}
}

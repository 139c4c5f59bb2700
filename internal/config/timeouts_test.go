package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearTimeoutEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvTimeoutPublicIP,
		EnvTimeoutDNS,
		EnvTimeoutApply,
		EnvRetryMaxAttempts,
		EnvRetryInitialDelay,
	} {
		t.Setenv(name, "")
	}
}

func TestLoadTimeouts(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want func(*Timeouts)
	}{
		{
			name: "defaults",
			want: func(*Timeouts) {},
		},
		{
			name: "overrides",
			env: map[string]string{
				EnvTimeoutPublicIP:  "2s",
				EnvTimeoutApply:     "90m",
				EnvRetryMaxAttempts: "7",
			},
			want: func(t *Timeouts) {
				t.PublicIP = 2 * time.Second
				t.Apply = 90 * time.Minute
				t.RetryMaxAttempts = 7
			},
		},
		{
			name: "invalid values keep defaults",
			env: map[string]string{
				EnvTimeoutDNS:        "soon",
				EnvRetryMaxAttempts:  "many",
				EnvRetryInitialDelay: "250ms",
			},
			want: func(t *Timeouts) {
				t.RetryInitialDelay = 250 * time.Millisecond
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTimeoutEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			want := DefaultTimeouts()
			tt.want(want)
			assert.Equal(t, want, LoadTimeouts())
		})
	}
}

func TestDefaultTimeouts(t *testing.T) {
	t.Parallel()
	d := DefaultTimeouts()
	assert.Equal(t, 10*time.Second, d.PublicIP)
	assert.Equal(t, 5*time.Second, d.DNS)
	assert.Equal(t, time.Hour, d.Apply)
	assert.Equal(t, 3, d.RetryMaxAttempts)
	assert.Equal(t, time.Second, d.RetryInitialDelay)
}

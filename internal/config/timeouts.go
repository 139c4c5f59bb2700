package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables read by LoadTimeouts.
const (
	EnvTimeoutPublicIP   = "KUBEPROX_TIMEOUT_PUBLIC_IP"
	EnvTimeoutDNS        = "KUBEPROX_TIMEOUT_DNS"
	EnvTimeoutApply      = "KUBEPROX_TIMEOUT_APPLY"
	EnvRetryMaxAttempts  = "KUBEPROX_RETRY_MAX_ATTEMPTS"
	EnvRetryInitialDelay = "KUBEPROX_RETRY_INITIAL_DELAY"
)

// Timeouts bounds the blocking steps of a run. They are operational knobs,
// not cluster description, so they come from the environment rather than
// the YAML file.
type Timeouts struct {
	PublicIP          time.Duration // one public IP lookup attempt
	DNS               time.Duration // reading the host resolver list
	Apply             time.Duration // the whole apply phase
	RetryMaxAttempts  int           // public IP lookup retries
	RetryInitialDelay time.Duration // first public IP lookup backoff
}

// DefaultTimeouts returns the values used when the environment is silent.
func DefaultTimeouts() *Timeouts {
	return &Timeouts{
		PublicIP:          10 * time.Second,
		DNS:               5 * time.Second,
		Apply:             60 * time.Minute,
		RetryMaxAttempts:  3,
		RetryInitialDelay: time.Second,
	}
}

// LoadTimeouts overlays DefaultTimeouts with the KUBEPROX_TIMEOUT_* and
// KUBEPROX_RETRY_* variables. Unset or unparsable values keep the default.
func LoadTimeouts() *Timeouts {
	t := DefaultTimeouts()
	t.PublicIP = envOr(EnvTimeoutPublicIP, t.PublicIP, time.ParseDuration)
	t.DNS = envOr(EnvTimeoutDNS, t.DNS, time.ParseDuration)
	t.Apply = envOr(EnvTimeoutApply, t.Apply, time.ParseDuration)
	t.RetryMaxAttempts = envOr(EnvRetryMaxAttempts, t.RetryMaxAttempts, strconv.Atoi)
	t.RetryInitialDelay = envOr(EnvRetryInitialDelay, t.RetryInitialDelay, time.ParseDuration)
	return t
}

func envOr[T any](name string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

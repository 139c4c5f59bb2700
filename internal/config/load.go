package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, defaults and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML document into a validated Config. Unknown keys are
// rejected so that a misspelled field fails loudly instead of being ignored.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills optional fields that were left empty.
func (c *Config) ApplyDefaults() {
	if c.ClusterName == "" {
		c.ClusterName = DefaultClusterName
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Proxmox.Node == "" {
		c.Proxmox.Node = DefaultProxmoxNode
	}
	if c.Proxmox.ExternalBridge == "" {
		c.Proxmox.ExternalBridge = DefaultExternalBridge
	}
	if c.Template.Name == "" {
		c.Template.Name = DefaultTemplateName
	}
	if c.Template.ImageURL == "" {
		c.Template.ImageURL = DefaultImageURL
	}
	if c.Expansion.WorkerCount == "" {
		c.Expansion.WorkerCount = WorkerCountLegacy
	}
}

// Save writes cfg as YAML to path with owner-only permissions, since the
// document carries the shared node password.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

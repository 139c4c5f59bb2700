// Package config defines the cluster configuration model consumed by the
// topology compiler and the artifact renderer.
//
// A [Config] is loaded from a single YAML document, defaulted with
// [Config.ApplyDefaults] and validated with [Config.Validate], which fails
// fast with a [ValidationError] naming the offending field. The validated
// value is then passed explicitly into every compile and render call; there
// is no process-wide configuration singleton.
package config

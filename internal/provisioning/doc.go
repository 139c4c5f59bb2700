// Package provisioning orchestrates a run as a pipeline of phases.
//
// # Phases
//
//   - compile: expand the configuration into a topology.Plan
//   - render: write cloud-init, network and playbook artifacts (internal/render)
//   - publish: archive the output directory (optional)
//   - apply: hand the rendered playbooks to a provisioning engine
//
// # Core Types
//
// Context carries configuration, state, observer and metrics recorder.
// Phase defines a step with Name() and Provision() methods.
// State accumulates results from each phase.
// Runner drives an Engine and reduces its events to a per-target Result;
// engine implementations live in subpackages such as ansible/.
package provisioning

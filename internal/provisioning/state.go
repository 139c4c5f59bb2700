package provisioning

import "github.com/imamik/kubeprox/internal/topology"

// InstanceState is the render lifecycle of one node instance.
type InstanceState string

// Instance states. An instance moves from planned to rendering and then to
// exactly one of rendered or failed.
const (
	StatePlanned   InstanceState = "planned"
	StateRendering InstanceState = "rendering"
	StateRendered  InstanceState = "rendered"
	StateFailed    InstanceState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s InstanceState) Terminal() bool {
	return s == StateRendered || s == StateFailed
}

// InstanceResult records the outcome of rendering one node.
type InstanceResult struct {
	Hostname  string
	Role      topology.Role
	State     InstanceState
	Artifacts []string
	Err       error
}

// State holds the shared results of phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Populated by the compile phase
	Plan *topology.Plan

	// Populated by the render phase
	Instances        []InstanceResult
	Playbooks        []string // VM playbooks of rendered instances, in id order
	TemplatePlaybook string
	Inventory        string

	// Populated by the publish phase
	Published []string

	// Populated by the apply phase
	Result *Result
}

// NewState creates an empty state.
func NewState() *State {
	return &State{}
}

// Rendered returns the hostnames that reached StateRendered.
func (s *State) Rendered() []string {
	var out []string
	for _, r := range s.Instances {
		if r.State == StateRendered {
			out = append(out, r.Hostname)
		}
	}
	return out
}

// Failed returns the instance results that reached StateFailed.
func (s *State) Failed() []InstanceResult {
	var out []InstanceResult
	for _, r := range s.Instances {
		if r.State == StateFailed {
			out = append(out, r)
		}
	}
	return out
}

package provisioning

import (
	"context"

	"github.com/imamik/kubeprox/internal/config"
)

// Context wraps all dependencies and state needed for a phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Observer Observer
	Metrics  Recorder
	Timeouts *config.Timeouts
}

// NewContext creates a new run context.
func NewContext(ctx context.Context, cfg *config.Config, observer Observer) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Observer: observer,
		Metrics:  NopRecorder{},
		Timeouts: config.LoadTimeouts(),
	}
}

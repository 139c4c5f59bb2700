package provisioning

import (
	"context"
	"time"
)

// Phase names.
const (
	PhaseCompile = "compile"
	PhaseRender  = "render"
	PhasePublish = "publish"
	PhaseApply   = "apply"
)

// Phase defines the interface for one step of a run.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the logic for this phase.
	Provision(ctx *Context) error
}

// Recorder receives run metrics. Implemented by internal/metrics.Collector.
type Recorder interface {
	PhaseDuration(phase string, d time.Duration)
	NodesPlanned(role string, count int)
	ArtifactRendered(role, kind string)
	RenderFailed(role string)
	TargetResults(ok, failedOrUnreachable int)
}

// Publisher archives a directory of artifacts.
// Implemented by internal/platform/s3.Publisher.
type Publisher interface {
	Publish(ctx context.Context, dir string) ([]string, error)
}

// NopRecorder discards all metrics.
type NopRecorder struct{}

func (NopRecorder) PhaseDuration(string, time.Duration) {}
func (NopRecorder) NodesPlanned(string, int)            {}
func (NopRecorder) ArtifactRendered(string, string)     {}
func (NopRecorder) RenderFailed(string)                 {}
func (NopRecorder) TargetResults(int, int)              {}

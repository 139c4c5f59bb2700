package provisioning

import (
	"fmt"
	"time"
)

// Pipeline runs phases in order and stops at the first failure.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline of phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes all phases sequentially.
func (p *Pipeline) Run(ctx *Context) error {
	start := time.Now()
	metrics := ctx.Metrics
	if metrics == nil {
		metrics = NopRecorder{}
	}

	for i, phase := range p.Phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s phase not started: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())
		ctx.Observer.Progress(phase.Name(), i, len(p.Phases))

		err := phase.Provision(ctx)
		metrics.PhaseDuration(phase.Name(), time.Since(phaseStart))
		if err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), time.Since(phaseStart))
	}

	ctx.Observer.Printf("completed %d phase(s) in %v", len(p.Phases), time.Since(start).Round(time.Millisecond))
	return nil
}

package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/kubeprox/internal/topology"
)

// CompilePhase expands the configuration into a plan.
type CompilePhase struct {
	compiler *topology.Compiler
}

// NewCompilePhase creates a compile phase.
func NewCompilePhase(compiler *topology.Compiler) *CompilePhase {
	return &CompilePhase{compiler: compiler}
}

// Name implements Phase.
func (p *CompilePhase) Name() string { return PhaseCompile }

// Provision implements Phase.
func (p *CompilePhase) Provision(ctx *Context) error {
	plan, err := p.compiler.Compile(ctx, ctx.Config)
	if err != nil {
		return err
	}
	for _, w := range plan.Warnings {
		LogWarning(ctx.Observer, PhaseCompile, w)
	}
	for role, count := range plan.CountByRole() {
		ctx.Metrics.NodesPlanned(string(role), count)
	}
	for _, n := range plan.Nodes {
		ctx.Observer.Event(Event{
			Type:     EventNodePlanned,
			Phase:    PhaseCompile,
			Resource: n.Hostname,
			Message:  "planned",
			Fields: map[string]string{
				"role": string(n.Role),
				"vmid": fmt.Sprint(n.VMID),
			},
		})
	}
	ctx.State.Plan = plan
	return nil
}

// PublishPhase uploads the output directory.
type PublishPhase struct {
	publisher Publisher
}

// NewPublishPhase creates a publish phase.
func NewPublishPhase(publisher Publisher) *PublishPhase {
	return &PublishPhase{publisher: publisher}
}

// Name implements Phase.
func (p *PublishPhase) Name() string { return PhasePublish }

// Provision implements Phase.
func (p *PublishPhase) Provision(ctx *Context) error {
	keys, err := p.publisher.Publish(ctx, ctx.Config.OutputDir)
	if err != nil {
		return err
	}
	for _, k := range keys {
		ctx.Observer.Event(Event{
			Type:     EventArtifactPublished,
			Phase:    PhasePublish,
			Resource: k,
			Message:  "published",
		})
	}
	ctx.State.Published = keys
	return nil
}

// ApplyPhase hands the rendered playbooks to a Runner.
type ApplyPhase struct {
	runner *Runner
}

// NewApplyPhase creates an apply phase.
func NewApplyPhase(runner *Runner) *ApplyPhase {
	return &ApplyPhase{runner: runner}
}

// Name implements Phase.
func (p *ApplyPhase) Name() string { return PhaseApply }

// Provision implements Phase. Instances that failed to render are never
// applied; the phase refuses to run when nothing was rendered.
func (p *ApplyPhase) Provision(ctx *Context) error {
	if len(ctx.State.Playbooks) == 0 {
		return errors.New("no rendered playbooks to apply")
	}
	for _, f := range ctx.State.Failed() {
		LogWarning(ctx.Observer, PhaseApply, fmt.Sprintf("skipping %s: render failed", f.Hostname))
	}

	var playbooks []string
	if ctx.State.TemplatePlaybook != "" {
		playbooks = append(playbooks, ctx.State.TemplatePlaybook)
	}
	playbooks = append(playbooks, ctx.State.Playbooks...)

	result, err := p.runner.Apply(ctx, playbooks)
	if err != nil {
		return err
	}
	ctx.State.Result = result
	return nil
}

package render

import (
	"errors"
	"fmt"

	"github.com/imamik/kubeprox/internal/provisioning"
)

// Phase renders the compiled plan as part of a provisioning pipeline.
type Phase struct {
	renderer     *Renderer
	opts         []PipelineOption
	allowPartial bool
}

// NewPhase creates a render phase. With allowPartial set the phase succeeds
// as long as at least one node rendered, and later phases only see the
// nodes that did.
func NewPhase(renderer *Renderer, allowPartial bool, opts ...PipelineOption) *Phase {
	return &Phase{renderer: renderer, opts: opts, allowPartial: allowPartial}
}

// Name implements provisioning.Phase.
func (p *Phase) Name() string { return provisioning.PhaseRender }

// Provision implements provisioning.Phase.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	plan := ctx.State.Plan
	if plan == nil {
		return errors.New("no plan to render")
	}

	opts := append([]PipelineOption{WithRecorder(ctx.Metrics)}, p.opts...)
	pipeline := NewPipeline(p.renderer, ctx.Observer, opts...)

	results, renderErr := pipeline.RenderAll(ctx, plan)
	ctx.State.Instances = results
	ctx.State.Playbooks = nil
	for i, r := range results {
		if r.State == provisioning.StateRendered {
			ctx.State.Playbooks = append(ctx.State.Playbooks, plan.Nodes[i].Artifacts.Playbook)
		}
	}

	tmpl, err := RenderTemplatePlaybook(p.renderer, plan)
	if err != nil {
		return err
	}
	ctx.State.TemplatePlaybook = tmpl

	if ctx.State.Inventory, err = WriteInventory(plan, ctx.Config.Proxmox.Node); err != nil {
		return err
	}
	if _, err := WriteManifest(plan); err != nil {
		return err
	}

	if renderErr != nil {
		failed := len(ctx.State.Failed())
		if !p.allowPartial || failed == len(results) {
			return fmt.Errorf("%d of %d node(s) failed to render: %w", failed, len(results), renderErr)
		}
		provisioning.LogWarning(ctx.Observer, provisioning.PhaseRender,
			fmt.Sprintf("%d of %d node(s) failed to render, continuing with the rest", failed, len(results)))
	}
	return nil
}

package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/render"
	"github.com/imamik/kubeprox/internal/templates"
	"github.com/imamik/kubeprox/internal/util/prerequisites"
)

// phaseTemplate names the VM template step.
const phaseTemplate = "template"

// TemplateOptions controls the template command.
type TemplateOptions struct {
	ConfigPath string

	// Apply runs the rendered playbook after writing it.
	Apply bool

	Offline bool
}

// Template renders the VM template playbook and inventory and optionally
// runs the playbook against the Proxmox node.
func Template(ctx context.Context, opts TemplateOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	observer, err := newObserver()
	if err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, cfg, observer)

	var tools []prerequisites.Tool
	step := &templatePhase{renderer: render.NewRenderer(templates.FS())}
	if opts.Apply {
		tools = applyTools()
		step.runner = newRunner(cfg, pctx)
	}

	pipeline := provisioning.NewPipeline(
		provisioning.NewValidationPhase(tools...),
		provisioning.NewCompilePhase(newCompiler(opts.Offline, pctx.Timeouts)),
		step,
	)
	if err := pipeline.Run(pctx); err != nil {
		return err
	}

	fmt.Printf("VM template playbook: %s\n", pctx.State.TemplatePlaybook)

	if result := pctx.State.Result; result != nil {
		printRunSummary(cfg, pctx.State)
		if len(result.FailedOrUnreachable) > 0 {
			return fmt.Errorf("%d target(s) failed or were unreachable", len(result.FailedOrUnreachable))
		}
	}

	return nil
}

// templatePhase renders the shared VM template playbook and, with a runner,
// applies it.
type templatePhase struct {
	renderer *render.Renderer
	runner   *provisioning.Runner
}

func (p *templatePhase) Name() string { return phaseTemplate }

func (p *templatePhase) Provision(ctx *provisioning.Context) error {
	plan := ctx.State.Plan
	if plan == nil {
		return errors.New("no plan to render")
	}

	path, err := render.RenderTemplatePlaybook(p.renderer, plan)
	if err != nil {
		return err
	}
	ctx.State.TemplatePlaybook = path

	if ctx.State.Inventory, err = render.WriteInventory(plan, ctx.Config.Proxmox.Node); err != nil {
		return err
	}

	if p.runner == nil {
		return nil
	}

	result, err := p.runner.Apply(ctx, []string{path})
	if err != nil {
		return err
	}
	ctx.State.Result = result
	return nil
}

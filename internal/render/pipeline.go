package render

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/topology"
	"github.com/imamik/kubeprox/internal/util/async"
)

// Artifact kinds.
const (
	KindInitScript  = "init-script"
	KindUserData    = "user-data"
	KindNetworkData = "network-data"
	KindPlaybook    = "playbook"
)

// Pipeline renders every node of a plan.
type Pipeline struct {
	renderer *Renderer
	observer provisioning.Observer
	metrics  provisioning.Recorder
	workers  int
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithParallelism renders up to n nodes concurrently. Values below 2 render
// sequentially.
func WithParallelism(n int) PipelineOption {
	return func(p *Pipeline) { p.workers = n }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(m provisioning.Recorder) PipelineOption {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// NewPipeline creates a render pipeline.
func NewPipeline(renderer *Renderer, observer provisioning.Observer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		renderer: renderer,
		observer: observer,
		metrics:  provisioning.NopRecorder{},
		workers:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RenderAll renders every node of plan. A failing node does not stop its
// siblings; results come back in plan order and the returned error
// aggregates every per-node failure.
func (p *Pipeline) RenderAll(ctx context.Context, plan *topology.Plan) ([]provisioning.InstanceResult, error) {
	results := make([]provisioning.InstanceResult, len(plan.Nodes))
	tasks := make([]async.Task, len(plan.Nodes))
	for i, node := range plan.Nodes {
		results[i] = provisioning.InstanceResult{
			Hostname: node.Hostname,
			Role:     node.Role,
			State:    provisioning.StatePlanned,
		}
		tasks[i] = async.Task{
			Name: node.Hostname,
			Func: func(ctx context.Context) error {
				p.RenderNode(ctx, node, &results[i])
				return results[i].Err
			},
		}
	}

	var errs []error
	if p.workers > 1 {
		errs = async.Run(ctx, tasks, p.workers)
	} else {
		errs = async.RunSequential(ctx, tasks)
	}

	var result *multierror.Error
	for i, err := range errs {
		if err == nil {
			continue
		}
		// Tasks skipped by cancellation never left the planned state.
		if results[i].State == provisioning.StatePlanned {
			p.transition(&results[i], provisioning.StateFailed)
			results[i].Err = err
		}
		result = multierror.Append(result, err)
	}
	return results, result.ErrorOrNil()
}

// RenderNode renders one node's artifacts into res. All artifacts are
// rendered in memory before any is written, so a missing variable leaves
// the node's previous files untouched.
func (p *Pipeline) RenderNode(ctx context.Context, node topology.NodeInstance, res *provisioning.InstanceResult) {
	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}
	p.transition(res, provisioning.StateRendering)

	fail := func(kind string, err error) {
		res.Err = &InstanceError{Hostname: node.Hostname, Artifact: kind, Err: err}
		provisioning.LogArtifactFailed(p.observer, node.Hostname, kind, err)
		p.metrics.RenderFailed(string(node.Role))
		p.transition(res, provisioning.StateFailed)
	}

	vars := Vars(node.Vars())
	script, err := p.renderer.Execute(node.Templates.Script, vars)
	if err != nil {
		fail(KindInitScript, err)
		return
	}
	vars[topology.VarInitScript] = base64.StdEncoding.EncodeToString([]byte(script))

	outputs := []struct {
		kind     string
		template string
		path     string
		content  string
	}{
		{kind: KindUserData, template: node.Templates.UserData, path: node.Artifacts.UserData},
		{kind: KindNetworkData, template: node.Templates.NetworkData, path: node.Artifacts.NetworkData},
		{kind: KindPlaybook, template: node.Templates.Playbook, path: node.Artifacts.Playbook},
	}
	for i := range outputs {
		content, err := p.renderer.Execute(outputs[i].template, vars)
		if err != nil {
			fail(outputs[i].kind, err)
			return
		}
		outputs[i].content = content
	}

	for _, out := range outputs {
		if err := WriteFile(out.path, []byte(out.content)); err != nil {
			fail(out.kind, err)
			return
		}
		res.Artifacts = append(res.Artifacts, out.path)
		provisioning.LogArtifactRendered(p.observer, node.Hostname, out.kind, out.path)
		p.metrics.ArtifactRendered(string(node.Role), out.kind)
	}
	p.transition(res, provisioning.StateRendered)
}

func (p *Pipeline) transition(res *provisioning.InstanceResult, to provisioning.InstanceState) {
	from := res.State
	res.State = to
	p.observer.Event(provisioning.Event{
		Type:     provisioning.EventInstanceState,
		Phase:    provisioning.PhaseRender,
		Resource: res.Hostname,
		Message:  fmt.Sprintf("%s -> %s", from, to),
	})
}

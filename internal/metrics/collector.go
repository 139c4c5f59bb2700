package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kubeprox"

// Collector implements provisioning.Recorder on a private registry.
type Collector struct {
	cluster  string
	registry *prometheus.Registry

	phaseDuration     *prometheus.HistogramVec
	nodesPlanned      *prometheus.GaugeVec
	artifactsRendered *prometheus.CounterVec
	renderFailures    *prometheus.CounterVec
	provisionTargets  *prometheus.GaugeVec
}

// NewCollector creates a Collector whose series carry the cluster label.
func NewCollector(cluster string) *Collector {
	c := &Collector{
		cluster:  cluster,
		registry: prometheus.NewRegistry(),

		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of each run phase in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8), // 10ms to ~3min
			},
			[]string{"cluster", "phase"},
		),

		nodesPlanned: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "nodes_planned",
				Help:      "Number of planned node instances by role",
			},
			[]string{"cluster", "role"},
		),

		artifactsRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "artifacts_rendered_total",
				Help:      "Total number of artifacts written by role and kind",
			},
			[]string{"cluster", "role", "kind"},
		),

		renderFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_failures_total",
				Help:      "Total number of node instances that failed to render by role",
			},
			[]string{"cluster", "role"},
		),

		provisionTargets: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "provision_targets",
				Help:      "Number of provisioning targets by outcome",
			},
			[]string{"cluster", "outcome"},
		),
	}

	c.registry.MustRegister(
		c.phaseDuration,
		c.nodesPlanned,
		c.artifactsRendered,
		c.renderFailures,
		c.provisionTargets,
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// PhaseDuration records how long a phase took.
func (c *Collector) PhaseDuration(phase string, d time.Duration) {
	c.phaseDuration.WithLabelValues(c.cluster, phase).Observe(d.Seconds())
}

// NodesPlanned sets the planned instance count for a role.
func (c *Collector) NodesPlanned(role string, count int) {
	c.nodesPlanned.WithLabelValues(c.cluster, role).Set(float64(count))
}

// ArtifactRendered counts one written artifact.
func (c *Collector) ArtifactRendered(role, kind string) {
	c.artifactsRendered.WithLabelValues(c.cluster, role, kind).Inc()
}

// RenderFailed counts one instance that ended in the failed state.
func (c *Collector) RenderFailed(role string) {
	c.renderFailures.WithLabelValues(c.cluster, role).Inc()
}

// TargetResults sets the outcome gauges of the last apply.
func (c *Collector) TargetResults(ok, failedOrUnreachable int) {
	c.provisionTargets.WithLabelValues(c.cluster, "ok").Set(float64(ok))
	c.provisionTargets.WithLabelValues(c.cluster, "failed_or_unreachable").Set(float64(failedOrUnreachable))
}

// WriteTextfile writes all metrics in the text exposition format, atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

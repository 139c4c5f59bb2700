package provisioning

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-logr/logr"
)

// Logger is the minimal printf-style logging surface.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer defines the interface for structured observability while
// planning, rendering and applying.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "compile", "render")
	Message   string            // Human-readable message
	Resource  string            // Hostname or artifact path if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of event.
type EventType string

const (
	// EventPhaseStarted indicates a phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventWarning indicates a non-fatal condition such as a lookup fallback.
	EventWarning EventType = "warning"

	// EventNodePlanned indicates a node instance was added to the plan.
	EventNodePlanned EventType = "node.planned"
	// EventInstanceState indicates a node instance changed render state.
	EventInstanceState EventType = "instance.state"

	// EventArtifactRendered indicates an artifact was written.
	EventArtifactRendered EventType = "artifact.rendered"
	// EventArtifactFailed indicates an artifact could not be rendered.
	EventArtifactFailed EventType = "artifact.failed"
	// EventArtifactPublished indicates an artifact was uploaded.
	EventArtifactPublished EventType = "artifact.published"

	// EventTaskStarted indicates the provisioning engine started a task.
	EventTaskStarted EventType = "task.started"
	// EventTaskResult indicates a task finished on one target.
	EventTaskResult EventType = "task.result"
	// EventTargetSummary carries the final stats of one target.
	EventTargetSummary EventType = "target.summary"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer that writes to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...), o.keysAndValues(nil)...)
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = append(kv, o.keysAndValues(event.Fields)...)

	switch event.Type {
	case EventPhaseFailed, EventArtifactFailed:
		o.log.Error(errors.New(event.Message), string(event.Type), kv...)
	case EventInstanceState, EventTaskStarted, EventTaskResult, EventNodePlanned:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	kv := []any{"phase", phase, "current", current, "total", total}
	if total > 0 {
		kv = append(kv, "percent", (current*100)/total)
	}
	o.log.V(1).Info("progress", append(kv, o.keysAndValues(nil)...)...)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := maps.Clone(o.contextFields)
	maps.Copy(newFields, fields)
	return &LogObserver{
		log:           o.log,
		contextFields: newFields,
	}
}

// keysAndValues merges context fields with event fields; event fields win.
// Keys are sorted so output is stable.
func (o *LogObserver) keysAndValues(fields map[string]string) []any {
	merged := maps.Clone(o.contextFields)
	maps.Copy(merged, fields)

	kv := make([]any, 0, len(merged)*2)
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		kv = append(kv, k, merged[k])
	}
	return kv
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogWarning logs a non-fatal condition.
func LogWarning(observer Observer, phase, message string) {
	observer.Event(Event{
		Type:    EventWarning,
		Phase:   phase,
		Message: message,
	})
}

// LogArtifactRendered logs a written artifact.
func LogArtifactRendered(observer Observer, hostname, kind, path string) {
	observer.Event(Event{
		Type:     EventArtifactRendered,
		Phase:    PhaseRender,
		Resource: path,
		Message:  fmt.Sprintf("%s rendered", kind),
		Fields: map[string]string{
			"hostname": hostname,
			"kind":     kind,
		},
	})
}

// LogArtifactFailed logs an artifact that could not be rendered.
func LogArtifactFailed(observer Observer, hostname, kind string, err error) {
	observer.Event(Event{
		Type:     EventArtifactFailed,
		Phase:    PhaseRender,
		Resource: hostname,
		Message:  fmt.Sprintf("%s failed: %v", kind, err),
		Fields: map[string]string{
			"hostname": hostname,
			"kind":     kind,
		},
	})
}

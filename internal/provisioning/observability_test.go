package provisioning

import (
	"maps"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	mu       *sync.Mutex
	events   *[]Event
	messages *[]string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{
		mu:       &sync.Mutex{},
		events:   &[]Event{},
		messages: &[]string{},
		fields:   map[string]string{},
	}
}

func (m *MockObserver) Printf(format string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = append(*m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fields := maps.Clone(m.fields)
	maps.Copy(fields, event.Fields)
	event.Fields = fields
	*m.events = append(*m.events, event)
}

func (m *MockObserver) Progress(phase string, _, _ int) {
	m.Event(Event{Type: EventProgress, Phase: phase, Message: "progress"})
}

// WithFields shares the event log with the parent so tests see every event.
func (m *MockObserver) WithFields(fields map[string]string) Observer {
	merged := maps.Clone(m.fields)
	maps.Copy(merged, fields)
	return &MockObserver{mu: m.mu, events: m.events, messages: m.messages, fields: merged}
}

func (m *MockObserver) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), *m.events...)
}

func (m *MockObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// captureLogger returns a logr.Logger that records every formatted line.
func captureLogger(verbosity int) (logr.Logger, func() []string) {
	var mu sync.Mutex
	var lines []string
	log := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, strings.TrimSpace(prefix+" "+args))
	}, funcr.Options{Verbosity: verbosity})
	return log, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}
}

func TestLogObserver_Printf(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	NewLogObserver(log).Printf("applying %d playbook(s)", 3)

	require.Len(t, lines(), 1)
	assert.Contains(t, lines()[0], `"msg"="applying 3 playbook(s)"`)
}

func TestLogObserver_Event(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	observer := NewLogObserver(log)

	observer.Event(Event{
		Type:     EventArtifactRendered,
		Phase:    PhaseRender,
		Resource: "generated/nodes/ROUTER-1/user-data.yaml",
		Message:  "user-data rendered",
		Fields:   map[string]string{"kind": "user-data", "hostname": "ROUTER-1"},
	})

	require.Len(t, lines(), 1)
	line := lines()[0]
	assert.Contains(t, line, `"event"="artifact.rendered"`)
	assert.Contains(t, line, `"phase"="render"`)
	assert.Contains(t, line, `"resource"="generated/nodes/ROUTER-1/user-data.yaml"`)
	assert.Less(t, strings.Index(line, `"hostname"`), strings.Index(line, `"kind"`), "fields are sorted")
}

func TestLogObserver_FailedEventsLogAsErrors(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	LogPhaseFailed(NewLogObserver(log), PhaseRender, assert.AnError)

	require.Len(t, lines(), 1)
	assert.Contains(t, lines()[0], `"error"="failed: `+assert.AnError.Error()+`"`)
}

func TestLogObserver_VerboseEventsNeedV1(t *testing.T) {
	t.Parallel()

	quiet, quietLines := captureLogger(0)
	NewLogObserver(quiet).Event(Event{Type: EventInstanceState, Message: "planned -> rendering"})
	NewLogObserver(quiet).Progress(PhaseRender, 1, 4)
	assert.Empty(t, quietLines())

	verbose, verboseLines := captureLogger(1)
	NewLogObserver(verbose).Event(Event{Type: EventInstanceState, Message: "planned -> rendering"})
	NewLogObserver(verbose).Progress(PhaseRender, 1, 4)
	require.Len(t, verboseLines(), 2)
	assert.Contains(t, verboseLines()[1], `"percent"=25`)
}

func TestLogObserver_WithFields(t *testing.T) {
	t.Parallel()
	log, lines := captureLogger(0)
	parent := NewLogObserver(log)
	child := parent.WithFields(map[string]string{"run_id": "abc"})

	child.Event(Event{Type: EventWarning, Message: "w", Fields: map[string]string{"run_id": "override"}})
	parent.Printf("plain")

	got := lines()
	require.Len(t, got, 2)
	assert.Contains(t, got[0], `"run_id"="override"`)
	assert.NotContains(t, got[1], "run_id")
}

func TestLogWarning(t *testing.T) {
	t.Parallel()
	observer := NewMockObserver()
	LogWarning(observer, PhaseCompile, "fallback used")

	events := observer.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventWarning, events[0].Type)
	assert.Equal(t, PhaseCompile, events[0].Phase)
	assert.Equal(t, "fallback used", events[0].Message)
}

func TestLogHelpers(t *testing.T) {
	t.Parallel()
	observer := NewMockObserver()

	LogPhaseStart(observer, PhaseRender)
	LogArtifactRendered(observer, "VPN-2", "user-data", "generated/nodes/VPN-2/user-data.yaml")
	LogArtifactFailed(observer, "NFS-3", "init-script", assert.AnError)
	LogPhaseComplete(observer, PhaseRender, 1500*time.Millisecond)

	events := observer.Events()
	require.Len(t, events, 4)
	assert.Equal(t, EventPhaseStarted, events[0].Type)
	assert.Equal(t, "VPN-2", events[1].Fields["hostname"])
	assert.Equal(t, "NFS-3", events[2].Resource)
	assert.Equal(t, "init-script", events[2].Fields["kind"])
	assert.Equal(t, "completed in 1.5s", events[3].Message)
}

func TestObserver_ImplementsLogger(t *testing.T) {
	t.Parallel()
	var observer Observer = NewLogObserver(logr.Discard())
	var logger Logger = observer
	assert.NotNil(t, logger)
}

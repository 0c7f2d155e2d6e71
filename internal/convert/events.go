package convert

import "sync"

// Step names used in events.
const (
	StepConvert  = "convert"
	StepQuantize = "quantize"
)

// Event names.
const (
	EventStepStart  = "step_start"
	EventStepDone   = "step_done"
	EventStepFailed = "step_failed"
)

// Event represents a pipeline lifecycle event.
// Fields carries optional values such as "duration" (time.Duration) and
// "exit_code" (int, failures only).
type Event struct {
	Name    string
	Step    string
	Command []string
	Fields  map[string]any
}

// EventPublisher receives events from the converter. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MultiPublisher fans out each event to all of its publishers in order.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(e)
		}
	}
}

// MemoryPublisher stores events in-memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

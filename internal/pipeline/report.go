package pipeline

import "sync"

// EventKind labels one entry in the batch report.
type EventKind string

const (
	// EventParseError: file unusable (bad shape or extension). Error grade.
	EventParseError EventKind = "parse-error"
	// EventExcluded: brightfield or unknown channel. Not an error.
	EventExcluded EventKind = "excluded"
	// EventCollision: two raw names collapsed to one normalized name; the
	// later file won. Warning grade.
	EventCollision EventKind = "collision"
	// EventIncomplete: an image id lacked a full RGB set. Warning grade.
	EventIncomplete EventKind = "incomplete"
	// EventMergeFailed: the compositor reported failure for one job. Error
	// grade; sibling jobs proceed.
	EventMergeFailed EventKind = "merge-failed"
)

// Event is one recorded skip, warning or failure.
type Event struct {
	Kind    EventKind
	File    string // Filename or output name, when applicable.
	ImageID string // Image id, when applicable.
	Detail  string
}

// Report aggregates every event of a batch run. Safe for concurrent use:
// merge jobs append failure events from worker goroutines.
type Report struct {
	mu     sync.Mutex
	events []Event
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends an event.
func (r *Report) Add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of all recorded events in occurrence order.
func (r *Report) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByKind returns the recorded events of one kind.
func (r *Report) ByKind(kind EventKind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// HasErrors reports whether any error-grade event was recorded. Exclusions,
// collisions and incomplete channel sets are expected batch noise; only
// parse failures and failed merges fail the run.
func (r *Report) HasErrors() bool {
	for _, e := range r.Events() {
		switch e.Kind {
		case EventParseError, EventMergeFailed:
			return true
		}
	}
	return false
}

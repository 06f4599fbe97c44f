// Package notify is the notification gateway: fire-and-forget fan-out
// of game events to connected clients. The engine never blocks on
// delivery and requires no delivery guarantee.
package notify

import "sync"

// Notifier fans events out. Implementations must not block the caller;
// failures are logged, never returned.
type Notifier interface {
	NotifyOne(playerKey, event string, payload any)
	NotifyAll(event string, payload any)
}

// Noop discards every notification.
type Noop struct{}

func (Noop) NotifyOne(playerKey, event string, payload any) {}
func (Noop) NotifyAll(event string, payload any)            {}

// An Event is one recorded notification.
type Event struct {
	PlayerKey string // empty for broadcasts
	Name      string
	Payload   any
}

// Recorder collects notifications in memory. It is the test double for
// the gateway.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) NotifyOne(playerKey, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{PlayerKey: playerKey, Name: event, Payload: payload})
}

func (r *Recorder) NotifyAll(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: event, Payload: payload})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	evts := make([]Event, len(r.events))
	copy(evts, r.events)
	return evts
}

// Named returns the recorded events with the given name.
func (r *Recorder) Named(name string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

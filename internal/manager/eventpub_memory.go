package manager

import "sync"

// MemoryPublisher records events for tests and /status diagnostics.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// Events returns a snapshot in publication order.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Count returns how many kind events were published for modelID.
func (p *MemoryPublisher) Count(kind EventKind, modelID string) int {
	n := 0
	for _, e := range p.Events() {
		if e.Kind == kind && e.ModelID == modelID {
			n++
		}
	}
	return n
}

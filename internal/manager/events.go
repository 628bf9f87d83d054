package manager

import (
	"time"

	"reflectd/pkg/types"
)

// EventKind names a pipeline lifecycle transition.
type EventKind string

const (
	EventLoadStart EventKind = "load_start"
	EventLoadReady EventKind = "load_ready"
	EventLoadError EventKind = "load_error"
	EventCacheHit  EventKind = "cache_hit"
)

// Event is published by the pipeline cache on every lifecycle transition.
// Took is set on load_ready and load_error; Err only on load_error.
type Event struct {
	Kind    EventKind
	ModelID string
	Task    types.Task
	At      time.Time
	Took    time.Duration
	Err     error
}

// EventPublisher receives cache events. Publish is called on the loading
// goroutine and must not block.
type EventPublisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to EventPublisher.
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

var discardEvents = PublisherFunc(func(Event) {})

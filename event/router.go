package event

import (
	"sync"
)

// Handler processes specific event types
type Handler interface {
	// HandleEvent processes a single event
	// Called synchronously during the dispatch phase of a frame
	HandleEvent(event GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// Router is a typed event source: producers Publish, the frame loop dispatches
//
// Architecture:
//   - Single-threaded dispatch from the frame loop
//   - Multiple handlers per event type, invoked in registration order
//   - Subscribe is idempotent; a handler already registered is not added twice
//   - Handlers must be comparable (pointer receivers)
type Router struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	queue    *EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *EventQueue) *Router {
	if queue == nil {
		queue = NewEventQueue()
	}
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Subscribe adds a handler for its declared event types
// Returns false if the handler was already subscribed
func (r *Router) Subscribe(handler Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := false
	for _, t := range handler.EventTypes() {
		if containsHandler(r.handlers[t], handler) {
			continue
		}
		r.handlers[t] = append(r.handlers[t], handler)
		added = true
	}
	return added
}

// Unsubscribe removes a handler from every event type
// Returns false if the handler was not subscribed
func (r *Router) Unsubscribe(handler Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for t, list := range r.handlers {
		kept := list[:0]
		for _, h := range list {
			if h == handler {
				removed = true
				continue
			}
			kept = append(kept, h)
		}
		if len(kept) == 0 {
			delete(r.handlers, t)
		} else {
			r.handlers[t] = kept
		}
	}
	return removed
}

// Publish queues an event for the next dispatch
func (r *Router) Publish(ev GameEvent) {
	r.queue.Push(ev)
}

// DispatchAll consumes all pending events and routes them in FIFO order
// All handlers for an event are called before moving to the next event
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	for _, ev := range events {
		r.Dispatch(ev)
	}
	return len(events)
}

// Dispatch routes a single event immediately, bypassing the queue
func (r *Router) Dispatch(ev GameEvent) {
	r.mu.RLock()
	handlers := append([]Handler(nil), r.handlers[ev.Type]...)
	r.mu.RUnlock()

	for _, h := range handlers {
		h.HandleEvent(ev)
	}
}

// HasHandlers returns true if any handlers are registered for the given type
func (r *Router) HasHandlers(t EventType) bool {
	return r.HandlerCount(t) > 0
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router) HandlerCount(t EventType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[t])
}

// Pending returns the approximate number of queued events
func (r *Router) Pending() int {
	return r.queue.Len()
}

func containsHandler(list []Handler, h Handler) bool {
	for _, existing := range list {
		if existing == h {
			return true
		}
	}
	return false
}

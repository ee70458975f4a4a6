package event

import (
	"sync/atomic"

	"github.com/lixenwraith/scene-audio/constant"
)

// EventQueue is a fixed-size multi-producer single-consumer ring
// Producers (input goroutine, scene loader timers) Push without locking; the
// frame loop is the only consumer. A slot becomes readable once its ready flag
// is set, so Consume never observes a half-written event.
// When full, the oldest unread events are overwritten
type EventQueue struct {
	slots [constant.EventQueueSize]GameEvent
	ready [constant.EventQueueSize]atomic.Bool
	read  atomic.Uint64
	write atomic.Uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push claims the next write index, fills the slot, then marks it ready
func (q *EventQueue) Push(ev GameEvent) {
	for {
		w := q.write.Load()
		if !q.write.CompareAndSwap(w, w+1) {
			continue
		}

		i := w & constant.EventBufferMask
		q.slots[i] = ev
		q.ready[i].Store(true)

		// Drop the oldest event when the writer laps the reader
		r := q.read.Load()
		if w+1-r > constant.EventQueueSize {
			q.read.CompareAndSwap(r, w+1-constant.EventQueueSize)
		}
		return
	}
}

// Consume drains ready events in FIFO order
// A slot still being written ends the batch; it is picked up next frame
func (q *EventQueue) Consume() []GameEvent {
	for {
		r, w := q.read.Load(), q.write.Load()
		if r == w {
			return nil
		}

		n := w - r
		if n > constant.EventQueueSize {
			n = constant.EventQueueSize
			r = w - constant.EventQueueSize
		}

		batch := make([]GameEvent, 0, n)
		for k := uint64(0); k < n; k++ {
			i := (r + k) & constant.EventBufferMask
			if !q.ready[i].Load() {
				break
			}
			batch = append(batch, q.slots[i])
			q.ready[i].Store(false)
		}

		if q.read.CompareAndSwap(r, r+uint64(len(batch))) {
			if len(batch) == 0 {
				return nil
			}
			return batch
		}
	}
}

// Len returns the number of unread events, capped at the ring size
func (q *EventQueue) Len() int {
	r, w := q.read.Load(), q.write.Load()
	if w <= r {
		return 0
	}
	return int(min(w-r, constant.EventQueueSize))
}

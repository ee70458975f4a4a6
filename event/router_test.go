package event

import (
	"testing"
)

type recordingHandler struct {
	types []EventType
	got   []GameEvent
	log   *[]string
	name  string
}

func (h *recordingHandler) EventTypes() []EventType { return h.types }

func (h *recordingHandler) HandleEvent(ev GameEvent) {
	h.got = append(h.got, ev)
	if h.log != nil {
		*h.log = append(*h.log, h.name+":"+ev.Type.String())
	}
}

func TestRouterSubscribeIsIdempotent(t *testing.T) {
	r := NewRouter(nil)
	h := &recordingHandler{types: []EventType{EventTransitionBegin, EventTransitionEnd}}

	if !r.Subscribe(h) {
		t.Error("First subscribe should report added")
	}
	if r.Subscribe(h) {
		t.Error("Second subscribe should be a no-op")
	}
	if r.HandlerCount(EventTransitionEnd) != 1 {
		t.Errorf("Expected 1 handler, got %d", r.HandlerCount(EventTransitionEnd))
	}

	r.Publish(NewSceneEvent(EventTransitionEnd, "Level2"))
	r.DispatchAll()
	if len(h.got) != 1 {
		t.Errorf("Handler called %d times, want 1", len(h.got))
	}

	if !r.Unsubscribe(h) {
		t.Error("Unsubscribe should report removed")
	}
	if r.Unsubscribe(h) {
		t.Error("Second unsubscribe should report nothing removed")
	}
	if r.HasHandlers(EventTransitionBegin) || r.HasHandlers(EventTransitionEnd) {
		t.Error("Handlers remain after unsubscribe")
	}
}

func TestRouterDispatchOrder(t *testing.T) {
	r := NewRouter(NewEventQueue())
	var calls []string
	a := &recordingHandler{name: "a", types: []EventType{EventGamePaused, EventGameResumed}, log: &calls}
	b := &recordingHandler{name: "b", types: []EventType{EventGamePaused}, log: &calls}
	r.Subscribe(a)
	r.Subscribe(b)

	r.Publish(NewEvent(EventGamePaused))
	r.Publish(NewEvent(EventGameResumed))
	if r.Pending() != 2 {
		t.Errorf("Expected 2 pending, got %d", r.Pending())
	}

	if n := r.DispatchAll(); n != 2 {
		t.Errorf("Expected 2 dispatched, got %d", n)
	}
	want := []string{"a:GamePaused", "b:GamePaused", "a:GameResumed"}
	if len(calls) != len(want) {
		t.Fatalf("Calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("Call %d = %q, want %q", i, calls[i], want[i])
		}
	}
	if r.Pending() != 0 || r.DispatchAll() != 0 {
		t.Error("Queue not drained")
	}
}

func TestRouterDispatchImmediate(t *testing.T) {
	r := NewRouter(nil)
	h := &recordingHandler{types: []EventType{EventVolumeChanged}}
	r.Subscribe(h)

	r.Dispatch(NewVolumeEvent("music", 0.6))
	r.Dispatch(NewEvent(EventSceneLoaded)) // no handlers

	if len(h.got) != 1 {
		t.Fatalf("Handler called %d times", len(h.got))
	}
	p, ok := h.got[0].Payload.(*VolumePayload)
	if !ok || p.Channel != "music" || p.Linear != 0.6 {
		t.Errorf("Payload = %#v", h.got[0].Payload)
	}
}

// Handlers may unsubscribe themselves while being dispatched
func TestRouterUnsubscribeDuringDispatch(t *testing.T) {
	r := NewRouter(nil)
	h := &selfRemovingHandler{router: r}
	r.Subscribe(h)

	r.Publish(NewEvent(EventGamePaused))
	r.Publish(NewEvent(EventGamePaused))
	r.DispatchAll()

	if h.calls != 1 {
		t.Errorf("Expected 1 call before unsubscribe took effect, got %d", h.calls)
	}
}

type selfRemovingHandler struct {
	router *Router
	calls  int
}

func (h *selfRemovingHandler) EventTypes() []EventType { return []EventType{EventGamePaused} }

func (h *selfRemovingHandler) HandleEvent(GameEvent) {
	h.calls++
	h.router.Unsubscribe(h)
}

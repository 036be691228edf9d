package media

import (
	"slices"
	"sync"
)

// Handlers is a registry of event handlers. Elements embed it to implement On.
// The zero value is ready to use.
type Handlers struct {
	mu     sync.Mutex
	nextID int
	byType map[EventType]map[int]Handler
}

// On registers h for t.
func (hs *Handlers) On(t EventType, h Handler) (off func()) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	if hs.byType == nil {
		hs.byType = make(map[EventType]map[int]Handler)
	}
	if hs.byType[t] == nil {
		hs.byType[t] = make(map[int]Handler)
	}

	id := hs.nextID
	hs.nextID++
	hs.byType[t][id] = h

	return func() {
		hs.mu.Lock()
		defer hs.mu.Unlock()
		delete(hs.byType[t], id)
	}
}

// Emit calls the handlers registered for ev.Type in registration order.
// Handlers run without the registry locked, so they may register or remove handlers.
func (hs *Handlers) Emit(ev Event) {
	hs.mu.Lock()
	registered := hs.byType[ev.Type]
	ids := make([]int, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, registered[id])
	}
	hs.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Len returns the number of registered handlers for t.
func (hs *Handlers) Len(t EventType) int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.byType[t])
}

package relay

import (
	"slices"
	"sync"
	"time"
)

// slot is the per-address state.
//
// Every field is guarded by mu. The mutex is never held while a
// listener, interceptor, loader, or error handler runs, because those
// callbacks may reenter the registry; callers snapshot what they need
// and release the lock first.
type slot[T any] struct {
	mu sync.Mutex

	lastValue   T
	hasValue    bool
	lastUpdated time.Time

	// nextID distinguishes registrations so that removal closures
	// delete exactly the entry they were created for.
	nextID       uint64
	listeners    []listenerEntry[T]
	interceptors []interceptorEntry[T]

	loader      Loader[T]
	onLoadError LoadErrorHandler[T]

	// pending tracks at most one in-flight load.
	// A newly started load replaces it rather than queueing.
	pending *pendingLoad[T]
}

type listenerEntry[T any] struct {
	id uint64
	fn Listener[T]

	// ptr is the listener's code pointer,
	// used by Unlisten to match the same function value.
	ptr uintptr
}

type interceptorEntry[T any] struct {
	id uint64
	fn Interceptor[T]
}

// nextEntryID returns a registration id unique within the slot.
// The caller must hold s.mu.
func (s *slot[T]) nextEntryID() uint64 {
	s.nextID++
	return s.nextID
}

// removeListener deletes the listener registration with the given id,
// if it is still present.
func (s *slot[T]) removeListener(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.listeners {
		if e.id == id {
			s.listeners = slices.Delete(s.listeners, i, i+1)
			return
		}
	}
}

// removeInterceptor deletes the interceptor registration with the
// given id, if it is still present.
func (s *slot[T]) removeInterceptor(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.interceptors {
		if e.id == id {
			s.interceptors = slices.Delete(s.interceptors, i, i+1)
			return
		}
	}
}

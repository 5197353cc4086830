package relay

import (
	"context"
	"reflect"
	"slices"
)

// Listener receives values delivered to an address it is subscribed to.
type Listener[T any] func(ctx context.Context, v T) error

// Listen subscribes l to addr and returns a function that removes
// exactly this subscription.
//
// If the address already has a cached value, l is invoked with it
// before Listen returns; a failure there is logged rather than
// returned, since there is no emission outcome to attach it to. If the
// address has no value yet but has a loader, a load is started in the
// background instead.
//
// The same listener may be subscribed more than once and is then
// notified once per subscription. The returned function is idempotent
// and safe to call from within l itself: removal applies to later
// emissions, not to a notification pass already underway.
func (r *Registry[T]) Listen(ctx context.Context, addr string, l Listener[T]) func() {
	s := r.slot(addr)

	s.mu.Lock()
	id := s.nextEntryID()
	s.listeners = append(s.listeners, listenerEntry[T]{
		id:  id,
		fn:  l,
		ptr: reflect.ValueOf(l).Pointer(),
	})
	replay := s.hasValue
	cur := s.lastValue
	startLoad := !s.hasValue && s.loader != nil
	s.mu.Unlock()

	switch {
	case replay:
		if err := l(ctx, cur); err != nil {
			r.log.Warn(
				"Listener failed while replaying cached value",
				"addr", addr,
				"err", err,
			)
		}
	case startLoad:
		r.startLoad(addr)
	}

	return func() { s.removeListener(id) }
}

// Unlisten removes the earliest-registered subscription of l on addr.
//
// Listeners are matched by function identity: pass the same function
// value that was given to [Registry.Listen]. Distinct closures created
// from one function literal share an identity and match each other.
// Unlisten is a no-op when nothing matches.
func (r *Registry[T]) Unlisten(addr string, l Listener[T]) {
	ptr := reflect.ValueOf(l).Pointer()
	s := r.slot(addr)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.listeners {
		if e.ptr == ptr {
			s.listeners = slices.Delete(s.listeners, i, i+1)
			return
		}
	}
}

package relay

import "context"

// Send delivers v to addr.
//
// The address's interceptor chain runs first, in registration order,
// each step's output becoming the next step's input. If a step fails,
// Send returns that error unchanged and the address is left untouched.
//
// On chain success the final value is cached and the update time is
// stamped. Listeners are then notified one at a time in subscription
// order, each completing before the next begins. If a listener fails,
// the remaining listeners in that pass are skipped and Send returns
// the listener's error, but the cached value stays committed;
// [Registry.Get] observes it.
//
// Send returns the post-interceptor value on success.
//
// Concurrent Sends to the same address are not serialized against one
// another. Each call is internally ordered as described above, but
// callers needing a total order across emissions must provide it.
func (r *Registry[T]) Send(ctx context.Context, addr string, v T) (T, error) {
	s := r.slot(addr)

	s.mu.Lock()
	chain := make([]interceptorEntry[T], len(s.interceptors))
	copy(chain, s.interceptors)
	s.mu.Unlock()

	for _, step := range chain {
		var err error
		v, err = step.fn(ctx, addr, v, r)
		if err != nil {
			var zero T
			return zero, err
		}
	}

	s.mu.Lock()
	s.lastValue = v
	s.hasValue = true
	s.lastUpdated = r.now()

	// Snapshot so that unsubscribing mid-pass affects future
	// emissions without disturbing the pass already underway.
	ls := make([]listenerEntry[T], len(s.listeners))
	copy(ls, s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		if err := l.fn(ctx, v); err != nil {
			var zero T
			return zero, err
		}
	}

	return v, nil
}

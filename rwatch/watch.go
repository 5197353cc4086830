// Package rwatch bridges relay subscriptions to channels.
//
// It serves callers that consume address updates in select loops
// rather than callbacks. Delivery is best-effort: when a watcher's
// buffer is full, newer values are dropped instead of stalling the
// emission that produced them.
package rwatch

import (
	"context"
	"sync"

	"github.com/gordian-engine/relay"
)

// Watch subscribes to addr on r and returns a channel of its values
// together with a stop function.
//
// If the address already has a cached value, it is delivered into the
// channel before Watch returns. buf sizes the channel's buffer and is
// raised to 1 if smaller, so the replayed value is never dropped on an
// unconsumed channel.
//
// The stop function unsubscribes; it is idempotent, and no values are
// sent after it returns. The channel itself is never closed, so a
// drained watcher blocks rather than yielding zero values.
func Watch[T any](
	ctx context.Context, r *relay.Registry[T], addr string, buf int,
) (<-chan T, func()) {
	if buf < 1 {
		buf = 1
	}

	ch := make(chan T, buf)
	stopped := make(chan struct{})

	unsub := r.Listen(ctx, addr, func(_ context.Context, v T) error {
		select {
		case <-stopped:
			// Unsubscribe raced with a pass already underway.
			return nil
		default:
		}

		select {
		case ch <- v:
		default:
			// Slow consumer; drop rather than stall the emission.
		}
		return nil
	})

	var once sync.Once
	stop := func() {
		once.Do(func() {
			unsub()
			close(stopped)
		})
	}

	return ch, stop
}

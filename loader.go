package relay

import "context"

// Loader produces an address's first value. It does not return the
// value directly; it is expected to emit to its own address through
// [Registry.Send], possibly indirectly, before returning.
type Loader[T any] func(ctx context.Context, addr string, args ...any) error

// LoadErrorHandler is consulted when a loader fails.
//
// Returning a value with ok=true substitutes it for the failed load;
// ok=false declines, re-raising the loader's own error. A non-nil
// error is a failure of the handler itself and is reported together
// with the loader's error as a [RecoveryFailedError].
type LoadErrorHandler[T any] func(ctx context.Context, addr string, cause error) (recovered T, ok bool, err error)

// pendingLoad is the handle for one in-flight load.
type pendingLoad[T any] struct {
	finished chan struct{}
}

func newPendingLoad[T any]() *pendingLoad[T] {
	return &pendingLoad[T]{finished: make(chan struct{})}
}

func (p *pendingLoad[T]) finish() {
	close(p.finished)
}

func (p *pendingLoad[T]) done() bool {
	select {
	case <-p.finished:
		return true
	default:
		return false
	}
}

// SetLoader replaces addr's loader. A non-nil onErr also replaces the
// address's load error handler; a nil onErr leaves any existing
// handler in place.
//
// If the address already has listeners but no cached value, a load is
// started in the background immediately. This covers listeners that
// subscribed before any loader existed.
func (r *Registry[T]) SetLoader(addr string, fn Loader[T], onErr LoadErrorHandler[T]) {
	s := r.slot(addr)

	s.mu.Lock()
	s.loader = fn
	if onErr != nil {
		s.onLoadError = onErr
	}
	trigger := fn != nil && !s.hasValue && len(s.listeners) > 0
	s.mu.Unlock()

	if trigger {
		r.startLoad(addr)
	}
}

// SetLoaderErrorHandler replaces addr's load error handler.
func (r *Registry[T]) SetLoaderErrorHandler(addr string, onErr LoadErrorHandler[T]) {
	s := r.slot(addr)

	s.mu.Lock()
	s.onLoadError = onErr
	s.mu.Unlock()
}

// Load runs addr's loader and returns the resulting cached value.
//
// With no loader configured, Load returns the current cached value
// (the zero value if none) without emitting anything.
//
// The loader is expected to emit to addr itself; on loader success,
// Load returns whatever value the address caches afterwards. On loader
// failure the error handler, if configured, may substitute a recovered
// value, which is emitted through the usual interceptor chain and
// returned. A handler that declines re-raises the loader's original
// error unchanged; a handler that fails produces a
// [RecoveryFailedError] carrying both errors.
//
// Each address tracks at most one in-flight load. Starting another
// while one is outstanding replaces the tracked handle rather than
// queueing behind it, so the earlier load's completion is no longer
// reflected in [SlotView.LoadInFlight].
func (r *Registry[T]) Load(ctx context.Context, addr string, args ...any) (T, error) {
	s := r.slot(addr)

	s.mu.Lock()
	fn := s.loader
	onErr := s.onLoadError
	if fn == nil {
		v := s.lastValue
		s.mu.Unlock()
		return v, nil
	}
	p := newPendingLoad[T]()
	s.pending = p
	s.mu.Unlock()

	v, err := r.runLoad(ctx, s, addr, fn, onErr, args)

	p.finish()
	s.mu.Lock()
	if s.pending == p {
		s.pending = nil
	}
	s.mu.Unlock()

	return v, err
}

func (r *Registry[T]) runLoad(
	ctx context.Context,
	s *slot[T],
	addr string,
	fn Loader[T],
	onErr LoadErrorHandler[T],
	args []any,
) (T, error) {
	loadErr := fn(ctx, addr, args...)
	if loadErr == nil {
		s.mu.Lock()
		v := s.lastValue
		s.mu.Unlock()
		return v, nil
	}

	var zero T
	if onErr == nil {
		return zero, loadErr
	}

	recovered, ok, handlerErr := onErr(ctx, addr, loadErr)
	if handlerErr != nil {
		return zero, &RecoveryFailedError{
			HandlerErr: handlerErr,
			LoadErr:    loadErr,
		}
	}
	if !ok {
		return zero, loadErr
	}

	return r.Send(ctx, addr, recovered)
}

// startLoad runs a load on its own goroutine, for loads triggered as a
// side effect of subscription. Those have no caller to return an
// outcome to, so failure goes to the registry's logger.
func (r *Registry[T]) startLoad(addr string) {
	go func() {
		if _, err := r.Load(r.ctx, addr); err != nil {
			r.log.Warn(
				"Background load failed",
				"addr", addr,
				"err", err,
			)
		}
	}()
}

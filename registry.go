package relay

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Registry is a keyed collection of addresses, each caching the last
// value delivered to it and fanning new values out to its listeners.
//
// Addresses are created lazily on first reference and live for the
// registry's lifetime; there is no removal. Independently constructed
// registries share no state.
type Registry[T any] struct {
	log *slog.Logger

	// ctx bounds background loads triggered by subscription,
	// which have no caller of their own.
	ctx context.Context

	now func() time.Time

	mu    sync.Mutex
	slots map[string]*slot[T]
}

// RegistryConfig is the configuration for a [Registry].
type RegistryConfig struct {
	// Now is the timestamp source for update stamps.
	// If nil, time.Now is used.
	Now func() time.Time
}

// NewRegistry returns a registry with no addresses yet.
//
// ctx bounds loads triggered in the background by subscription; log
// receives failures from paths that have no caller to return an error
// to. Both are required.
func NewRegistry[T any](ctx context.Context, log *slog.Logger, cfg RegistryConfig) *Registry[T] {
	var panicErrs error

	if ctx == nil {
		panicErrs = errors.Join(
			panicErrs,
			errors.New("NewRegistry requires a non-nil context"),
		)
	}
	if log == nil {
		panicErrs = errors.Join(
			panicErrs,
			errors.New("NewRegistry requires a non-nil logger"),
		)
	}
	if panicErrs != nil {
		panic(panicErrs)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Registry[T]{
		log: log,
		ctx: ctx,
		now: now,

		slots: make(map[string]*slot[T]),
	}
}

// slot returns the slot for addr, creating it if it did not exist.
func (r *Registry[T]) slot(addr string) *slot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[addr]
	if !ok {
		s = &slot[T]{}
		r.slots[addr] = s
	}
	return s
}

// SlotView is a snapshot of one address's observable state.
type SlotView[T any] struct {
	// Value is the most recently cached value,
	// or the zero value while HasValue is false.
	Value T

	// HasValue reports whether any emission has ever
	// completed for the address.
	HasValue bool

	// LastUpdated is when the cached value was last committed.
	LastUpdated time.Time

	// Listeners is the number of current subscriptions.
	Listeners int

	// HasLoader reports whether a loader is configured.
	HasLoader bool

	// LoadInFlight reports whether the address's tracked load
	// has started and not yet finished.
	LoadInFlight bool
}

// Get returns a snapshot of addr's state,
// creating the address if it did not exist.
func (r *Registry[T]) Get(addr string) SlotView[T] {
	s := r.slot(addr)

	s.mu.Lock()
	defer s.mu.Unlock()

	return SlotView[T]{
		Value:        s.lastValue,
		HasValue:     s.hasValue,
		LastUpdated:  s.lastUpdated,
		Listeners:    len(s.listeners),
		HasLoader:    s.loader != nil,
		LoadInFlight: s.pending != nil && !s.pending.done(),
	}
}

package relay

import "context"

// Interceptor transforms a value emitted to addr before it is cached
// and fanned out. The registry handle is the one the emission went
// through, so a step may read or emit to other addresses.
type Interceptor[T any] func(ctx context.Context, addr string, v T, r *Registry[T]) (T, error)

// AddInterceptor appends step to addr's interceptor chain and returns
// a function that removes exactly this step instance. The chain runs
// in registration order on every emission; see [Registry.Send].
func (r *Registry[T]) AddInterceptor(addr string, step Interceptor[T]) func() {
	s := r.slot(addr)

	s.mu.Lock()
	id := s.nextEntryID()
	s.interceptors = append(s.interceptors, interceptorEntry[T]{id: id, fn: step})
	s.mu.Unlock()

	return func() { s.removeInterceptor(id) }
}

// Package relay implements an in-process publish/subscribe value cache.
//
// A [Registry] maps opaque string addresses to slots that remember the
// last value delivered to them. Values emitted with [Registry.Send] pass
// through the address's ordered interceptor chain, are cached, and are
// then delivered to listeners in subscription order. A new listener
// immediately receives the cached value when one exists; otherwise a
// configured [Loader] is invoked to produce the first value by emitting
// it itself.
//
// All state lives in one process's memory. The registry is not a
// distributed bus and performs no batching or backpressure; delivery is
// synchronous per call.
package relay

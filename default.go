package relay

import (
	"context"
	"log/slog"
	"sync"
)

// Default returns the conventionally shared registry.
//
// It is an ordinary [Registry] over any, created on first use with
// [slog.Default]'s logger. Nothing in the package requires it;
// independently constructed registries share no state with it.
var Default = sync.OnceValue(func() *Registry[any] {
	return NewRegistry[any](context.Background(), slog.Default(), RegistryConfig{})
})

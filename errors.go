package relay

import "fmt"

// RecoveryFailedError is returned from [Registry.Load] when a loader
// failed and the configured error handler failed as well. Both causes
// stay reachable through errors.Is and errors.As.
type RecoveryFailedError struct {
	// HandlerErr is the error handler's own failure.
	HandlerErr error

	// LoadErr is the loader failure the handler was given.
	LoadErr error
}

func (e *RecoveryFailedError) Error() string {
	return fmt.Sprintf(
		"load recovery failed: %v (original load error: %v)",
		e.HandlerErr, e.LoadErr,
	)
}

func (e *RecoveryFailedError) Unwrap() []error {
	return []error{e.HandlerErr, e.LoadErr}
}

// Package rtest contains channel helpers for tests.
package rtest

import (
	"testing"
	"time"
)

// ReceiveSoon returns a value received from ch,
// failing t if nothing arrives within a second.
func ReceiveSoon[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting to receive from channel")
		panic("unreachable")
	}
}

// NotReceiving asserts that ch has no value ready.
func NotReceiving[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case v := <-ch:
		t.Fatalf("expected no ready value on channel, got %v", v)
	default:
	}
}

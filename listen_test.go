package relay_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSend_notifiesInSubscriptionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		r.Listen(ctx, "a", func(context.Context, int) error {
			order = append(order, name)
			return nil
		})
	}

	_, err := r.Send(ctx, "a", 1)
	require.NoError(t, err)

	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSend_listenerFailureStopsPassButKeepsValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	errBoom := errors.New("boom")

	var before, after int
	r.Listen(ctx, "a", func(context.Context, int) error {
		before++
		return nil
	})
	r.Listen(ctx, "a", func(context.Context, int) error {
		return errBoom
	})
	r.Listen(ctx, "a", func(context.Context, int) error {
		after++
		return nil
	})

	_, err := r.Send(ctx, "a", 7)
	require.ErrorIs(t, err, errBoom)

	require.Equal(t, 1, before)
	require.Zero(t, after, "listeners after the failing one must be skipped")

	// The commit is not rolled back.
	v := r.Get("a")
	require.True(t, v.HasValue)
	require.Equal(t, 7, v.Value)
}

func TestListen_sameListenerTwiceNotifiedTwice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	var calls int
	l := func(context.Context, int) error {
		calls++
		return nil
	}

	r.Listen(ctx, "a", l)
	r.Listen(ctx, "a", l)

	_, err := r.Send(ctx, "a", 1)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestListen_unsubscribeRemovesOnlyItsRegistration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	var calls int
	l := func(context.Context, int) error {
		calls++
		return nil
	}

	unsub := r.Listen(ctx, "a", l)
	r.Listen(ctx, "a", l)

	unsub()
	unsub() // Idempotent.

	require.Equal(t, 1, r.Get("a").Listeners)

	_, err := r.Send(ctx, "a", 1)
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestListen_unsubscribeFromWithinListener(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	var selfCalls, otherCalls int

	var unsub func()
	unsub = r.Listen(ctx, "a", func(context.Context, int) error {
		selfCalls++
		unsub()
		return nil
	})
	r.Listen(ctx, "a", func(context.Context, int) error {
		otherCalls++
		return nil
	})

	_, err := r.Send(ctx, "a", 1)
	require.NoError(t, err)

	// The pass underway still completed in order.
	require.Equal(t, 1, selfCalls)
	require.Equal(t, 1, otherCalls)

	_, err = r.Send(ctx, "a", 2)
	require.NoError(t, err)

	require.Equal(t, 1, selfCalls, "removed listener must not see later emissions")
	require.Equal(t, 2, otherCalls)
}

func TestListen_replayFailureKeepsSubscription(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	_, err := r.Send(ctx, "a", 1)
	require.NoError(t, err)

	var got []int
	r.Listen(ctx, "a", func(_ context.Context, v int) error {
		got = append(got, v)
		return errors.New("replay failed")
	})

	// The replay failure is logged, not returned, and the
	// subscription stays in place for the next emission.
	require.Equal(t, []int{1}, got)

	_, err = r.Send(ctx, "a", 2)
	require.Error(t, err)
	require.Equal(t, []int{1, 2}, got)
}

func TestUnlisten_removesFirstMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	var calls int
	l := func(context.Context, int) error {
		calls++
		return nil
	}

	r.Listen(ctx, "a", l)
	r.Listen(ctx, "a", l)

	r.Unlisten("a", l)
	require.Equal(t, 1, r.Get("a").Listeners)

	_, err := r.Send(ctx, "a", 1)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	r.Unlisten("a", l)
	require.Zero(t, r.Get("a").Listeners)
}

func TestUnlisten_noopWhenAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newRegistry[int](t)

	r.Listen(ctx, "a", func(context.Context, int) error { return nil })

	r.Unlisten("a", func(context.Context, int) error {
		return errors.New("never subscribed")
	})
	require.Equal(t, 1, r.Get("a").Listeners)

	r.Unlisten("never-referenced", func(context.Context, int) error { return nil })
}

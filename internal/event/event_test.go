package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitbar/internal/event"
)

func TestEmitterFireDeliversInOrder(t *testing.T) {
	t.Parallel()

	var e event.Emitter[int]
	var got []string

	e.Subscribe(func(v int) { got = append(got, "first") })
	e.Subscribe(func(v int) { got = append(got, "second") })
	e.Fire(1)

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestEmitterFireWithNoSubscribers(t *testing.T) {
	t.Parallel()

	var e event.Emitter[struct{}]
	// Must not panic.
	e.Fire(struct{}{})
	assert.Equal(t, 0, e.HandlerCount())
}

func TestSubscriptionDisposeRemovesHandler(t *testing.T) {
	t.Parallel()

	var e event.Emitter[struct{}]
	calls := 0
	sub := e.Subscribe(func(struct{}) { calls++ })

	e.Fire(struct{}{})
	require.Equal(t, 1, calls)

	sub.Dispose()
	e.Fire(struct{}{})
	assert.Equal(t, 1, calls, "disposed handler must not be invoked")
	assert.Equal(t, 0, e.HandlerCount())
}

func TestSubscriptionDisposeIsIdempotent(t *testing.T) {
	t.Parallel()

	var e event.Emitter[struct{}]
	sub := e.Subscribe(func(struct{}) {})

	sub.Dispose()
	sub.Dispose()
	assert.Equal(t, 0, e.HandlerCount())
}

func TestEmitterPayloadDelivered(t *testing.T) {
	t.Parallel()

	var e event.Emitter[string]
	var got string
	e.Subscribe(func(v string) { got = v })

	e.Fire("hello")
	assert.Equal(t, "hello", got)
}

func TestDisposerReleasesAllSubscriptions(t *testing.T) {
	t.Parallel()

	var e event.Emitter[struct{}]
	var d event.Disposer

	calls := 0
	d.Add(e.Subscribe(func(struct{}) { calls++ }))
	d.Add(e.Subscribe(func(struct{}) { calls++ }))

	e.Fire(struct{}{})
	require.Equal(t, 2, calls)

	d.Dispose()
	e.Fire(struct{}{})
	assert.Equal(t, 2, calls, "no handler should survive Dispose")
}

func TestDisposerDisposeIsIdempotent(t *testing.T) {
	t.Parallel()

	var d event.Disposer
	var e event.Emitter[struct{}]
	d.Add(e.Subscribe(func(struct{}) {}))

	d.Dispose()
	d.Dispose()
	assert.Equal(t, 0, e.HandlerCount())
}

func TestDisposerAddAfterDisposeReleasesImmediately(t *testing.T) {
	t.Parallel()

	var d event.Disposer
	var e event.Emitter[struct{}]

	d.Dispose()
	d.Add(e.Subscribe(func(struct{}) {}))

	assert.Equal(t, 0, e.HandlerCount(), "subscription added after dispose must be released")
}

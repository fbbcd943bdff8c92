// Package event provides a small process-local publish/subscribe primitive.
//
// An Emitter broadcasts values synchronously and in order to every live
// subscriber on the goroutine that calls Fire. There is no buffering and no
// delivery guarantee beyond that synchronous broadcast: a handler that needs
// asynchrony must arrange it itself (e.g. by forwarding to a channel).
package event

import "sync"

// Subscription represents a registered handler on an Emitter.
// Disposing a subscription removes the handler; Dispose is idempotent.
type Subscription interface {
	Dispose()
}

// handler is one registered callback. The removed flag is owned by the
// emitter's mutex.
type handler[T any] struct {
	fn      func(T)
	removed bool
}

// Emitter broadcasts values of type T to subscribed handlers.
// The zero value is ready to use. An Emitter is safe for concurrent use,
// but handlers are invoked synchronously on the firing goroutine.
type Emitter[T any] struct {
	mu       sync.Mutex
	handlers []*handler[T]
}

// Subscribe registers fn to be called on every subsequent Fire.
// Handlers are invoked in subscription order.
func (e *Emitter[T]) Subscribe(fn func(T)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := &handler[T]{fn: fn}
	e.handlers = append(e.handlers, h)
	return &subscription[T]{emitter: e, handler: h}
}

// Fire broadcasts value to all live handlers, in subscription order.
// Handlers subscribed or disposed during a broadcast do not affect the
// in-flight delivery: the handler list is snapshotted before dispatch.
func (e *Emitter[T]) Fire(value T) {
	e.mu.Lock()
	live := make([]*handler[T], 0, len(e.handlers))
	for _, h := range e.handlers {
		if !h.removed {
			live = append(live, h)
		}
	}
	e.mu.Unlock()

	for _, h := range live {
		h.fn(value)
	}
}

// HandlerCount returns the number of live handlers. Intended for tests.
func (e *Emitter[T]) HandlerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, h := range e.handlers {
		if !h.removed {
			n++
		}
	}
	return n
}

// subscription ties a handler back to its emitter for removal.
type subscription[T any] struct {
	emitter *Emitter[T]
	handler *handler[T]
	once    sync.Once
}

// Dispose removes the handler from the emitter. Safe to call more than once.
func (s *subscription[T]) Dispose() {
	s.once.Do(func() {
		e := s.emitter
		e.mu.Lock()
		defer e.mu.Unlock()

		s.handler.removed = true
		// Compact the handler list so long-lived emitters don't accumulate
		// dead entries.
		kept := e.handlers[:0]
		for _, h := range e.handlers {
			if !h.removed {
				kept = append(kept, h)
			}
		}
		e.handlers = kept
	})
}

// Disposer owns a set of subscriptions that are released together.
// The zero value is ready to use. Dispose releases every held subscription
// exactly once; later Add calls dispose the subscription immediately.
type Disposer struct {
	mu       sync.Mutex
	subs     []Subscription
	disposed bool
}

// Add takes ownership of sub. If the Disposer is already disposed,
// sub is disposed immediately.
func (d *Disposer) Add(sub Subscription) {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		sub.Dispose()
		return
	}
	d.subs = append(d.subs, sub)
	d.mu.Unlock()
}

// Dispose releases all held subscriptions. Safe to call more than once.
func (d *Disposer) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	subs := d.subs
	d.subs = nil
	d.mu.Unlock()

	for _, sub := range subs {
		sub.Dispose()
	}
}

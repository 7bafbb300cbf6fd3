package appstate

import (
	"context"
	"sync"
)

// Replay is a broadcast value that remembers the last published value.
// Subscribers attaching after a publish receive that value first and then
// every later publish in order.
type Replay[T any] struct {
	mu    sync.Mutex
	value T
	set   bool
	ready chan struct{} // closed on first publish
	subs  map[*subscriber[T]]struct{}
}

// NewReplay creates an empty replay value
func NewReplay[T any]() *Replay[T] {
	return &Replay[T]{
		ready: make(chan struct{}),
		subs:  make(map[*subscriber[T]]struct{}),
	}
}

// Publish stores v and delivers it to every subscriber
func (r *Replay[T]) Publish(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.value = v
	if !r.set {
		r.set = true
		close(r.ready)
	}
	for s := range r.subs {
		s.push(v)
	}
}

// Latest returns the last published value and whether one exists
func (r *Replay[T]) Latest() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.set
}

// Wait returns the last published value, blocking until the first publish
// or until ctx is done.
func (r *Replay[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.ready:
		v, _ := r.Latest()
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Subscribe returns a channel that yields the last published value (if any)
// followed by every later publish. The channel is closed once ctx is done.
func (r *Replay[T]) Subscribe(ctx context.Context) <-chan T {
	out := make(chan T)
	s := &subscriber[T]{wake: make(chan struct{}, 1)}

	r.mu.Lock()
	if r.set {
		s.push(r.value)
	}
	r.subs[s] = struct{}{}
	r.mu.Unlock()

	go func() {
		defer close(out)
		defer r.unsubscribe(s)
		for {
			v, ok := s.pop()
			if !ok {
				select {
				case <-s.wake:
					continue
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (r *Replay[T]) unsubscribe(s *subscriber[T]) {
	r.mu.Lock()
	delete(r.subs, s)
	r.mu.Unlock()
}

// subscriber queues values so a slow reader never blocks Publish
type subscriber[T any] struct {
	mu    sync.Mutex
	queue []T
	wake  chan struct{}
}

func (s *subscriber[T]) push(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) pop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		var zero T
		return zero, false
	}
	v := s.queue[0]
	s.queue = s.queue[1:]
	return v, true
}

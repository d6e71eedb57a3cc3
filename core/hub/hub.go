package hub

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber queue length used when New is given zero.
const DefaultBuffer = 16

// Hub fans published values out to every current subscriber.
//
// Publish never blocks: a subscriber whose queue is full loses its oldest queued
// value and keeps the newest. Evictions are counted. Subscribers only need membership, no per-observer state.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription[T]
	nextID uint64
	buffer int
	closed bool

	dropped atomic.Uint64
}

// Subscription receives published values on C until it is closed.
type Subscription[T any] struct {
	C <-chan T

	id   uint64
	ch   chan T
	hub  *Hub[T]
	once sync.Once
}

// New creates a hub whose subscribers queue up to buffer values each.
func New[T any](buffer int) *Hub[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub[T]{
		subs:   make(map[uint64]*Subscription[T]),
		buffer: buffer,
	}
}

// Subscribe registers a new observer. After Close the returned subscription is
// already closed.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	ch := make(chan T, h.buffer)
	sub := &Subscription[T]{C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}
	h.nextID++
	sub.id = h.nextID
	h.subs[sub.id] = sub
	return sub
}

// Publish delivers v to every subscriber and returns how many received it.
// A full queue gives up its oldest value so the newest always gets through.
func (h *Hub[T]) Publish(v T) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		sub.offer(v, &h.dropped)
	}
	return len(h.subs)
}

// Len returns the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many queued values were evicted to make room for newer ones.
func (h *Hub[T]) Dropped() uint64 {
	return h.dropped.Load()
}

// Close unsubscribes everyone and rejects later subscriptions.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[uint64]*Subscription[T])
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Close removes the subscription from its hub and closes C. It is safe to call twice.
func (s *Subscription[T]) Close() {
	s.hub.mu.Lock()
	delete(s.hub.subs, s.id)
	s.hub.mu.Unlock()

	s.once.Do(func() { close(s.ch) })
}

// offer queues v, evicting older values while the queue is full.
func (s *Subscription[T]) offer(v T, dropped *atomic.Uint64) {
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		select {
		case <-s.ch:
			dropped.Add(1)
		default:
		}
	}
}

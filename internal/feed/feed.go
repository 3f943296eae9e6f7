// Package feed pushes full snapshots of a per-user collection to subscribers whenever the collection changes.
package feed

import (
	"sync"
)

// Hub fans snapshots of a collection of T out to subscribers, partitioned by user ID.
//
// Snapshots replace each other: a subscriber only ever needs the latest one. Within a user's topic, snapshots are
// delivered in the order they are published.
type Hub[T any] struct {
	mu     sync.Mutex
	topics map[int]*topic[T]
	nextID uint64
}

type topic[T any] struct {
	// deliver serialises refreshes and deliveries so that subscribers see snapshots in load order.
	deliver     sync.Mutex
	subscribers map[uint64]func([]T)
}

// NewHub creates an empty Hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{mu: sync.Mutex{}, topics: make(map[int]*topic[T]), nextID: 0}
}

// Subscribe registers fn for snapshots published to key. The returned function cancels the subscription and may be
// called more than once.
//
// fn is called synchronously from Publish and must not block for long or call back into the Hub.
func (h *Hub[T]) Subscribe(key int, fn func([]T)) func() {
	h.mu.Lock()
	t, ok := h.topics[key]
	if !ok {
		t = &topic[T]{deliver: sync.Mutex{}, subscribers: make(map[uint64]func([]T))}
		h.topics[key] = t
	}
	h.nextID++
	id := h.nextID
	t.subscribers[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(t.subscribers, id)
			if len(t.subscribers) == 0 && h.topics[key] == t {
				delete(h.topics, key)
			}
		})
	}
}

// Publish delivers snapshot to every subscriber of key.
func (h *Hub[T]) Publish(key int, snapshot []T) {
	t := h.topic(key)
	if t == nil {
		return
	}
	t.deliver.Lock()
	defer t.deliver.Unlock()
	h.broadcast(t, snapshot)
}

// Refresh calls load and publishes the result to key. Concurrent refreshes of the same key are serialised so that a
// snapshot loaded earlier is never delivered after one loaded later. Nothing is loaded when key has no subscribers.
func (h *Hub[T]) Refresh(key int, load func() ([]T, error)) error {
	t := h.topic(key)
	if t == nil {
		return nil
	}
	t.deliver.Lock()
	defer t.deliver.Unlock()
	snapshot, err := load()
	if err != nil {
		return err
	}
	h.broadcast(t, snapshot)
	return nil
}

// Subscribers returns the number of subscribers of key.
func (h *Hub[T]) Subscribers(key int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.topics[key]; ok {
		return len(t.subscribers)
	}
	return 0
}

func (h *Hub[T]) topic(key int) *topic[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.topics[key]
}

func (h *Hub[T]) broadcast(t *topic[T], snapshot []T) {
	h.mu.Lock()
	fns := make([]func([]T), 0, len(t.subscribers))
	for _, fn := range t.subscribers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// Latest returns a subscriber callback together with a channel that always holds the most recent undelivered
// snapshot. Older snapshots are dropped when the receiver falls behind.
func Latest[T any]() (func([]T), <-chan []T) {
	ch := make(chan []T, 1)
	return func(snapshot []T) {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}, ch
}

// Package notifier fans out table change signals to connected browsers.
package notifier

import (
	"sync"
	"sync/atomic"
)

// Notifier broadcasts change pings to every subscriber. A ping carries no
// payload; subscribers re-render from the store when they receive one.
type Notifier struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]chan struct{}
	seq    atomic.Uint64
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[uint64]chan struct{})}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Broadcast pings every subscriber without blocking. A subscriber with a
// ping already pending is skipped; one pending ping covers any number of
// changes.
func (n *Notifier) Broadcast() {
	n.seq.Add(1)

	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of registered listeners.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Broadcasts returns how many broadcasts have been sent.
func (n *Notifier) Broadcasts() uint64 {
	return n.seq.Load()
}

package playback

import "sync"

// Broker fans a single global "widget ready" signal out to every subscriber.
// Readiness is one-way: once Ready fires, later subscriptions are refused and
// callers proceed directly.
type Broker struct {
	mu     sync.Mutex
	ready  bool
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func()
}

func NewBroker() *Broker {
	return &Broker{}
}

var defaultBroker = NewBroker()

// DefaultBroker is the process-wide broker for the embed widget.
func DefaultBroker() *Broker {
	return defaultBroker
}

// Subscribe registers fn to run once when readiness fires. It returns false
// without registering when the broker is already ready.
func (b *Broker) Subscribe(fn func()) (cancel func(), ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ready {
		return func() {}, false
	}
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}, true
}

// Ready marks the widget library as loaded and runs every pending
// subscriber in subscription order. Repeated calls are no-ops.
func (b *Broker) Ready() {
	b.mu.Lock()
	if b.ready {
		b.mu.Unlock()
		return
	}
	b.ready = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}

func (b *Broker) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Pending is the number of subscribers still waiting for readiness.
func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

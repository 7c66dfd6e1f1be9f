package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tingleradar/tingleradar/internal/metrics"
)

// Entry is one browser-held playback session and its player.
type Entry struct {
	ID       string
	Session  *Session
	Adapter  *Adapter
	lastSeen time.Time
}

// Ended forwards the browser's ended event through the adapter so events from
// a torn-down widget are dropped. Reports whether a widget was live.
func (e *Entry) Ended() bool {
	w, ok := e.Adapter.Widget().(*RemoteWidget)
	if !ok || w == nil {
		return false
	}
	w.Ended()
	return true
}

// Loads is the number of in-place loads the current widget has served.
func (e *Entry) Loads() int {
	if w, ok := e.Adapter.Widget().(*RemoteWidget); ok && w != nil {
		return w.Loads()
	}
	return 0
}

type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	broker  *Broker
	factory Factory
	now     func() time.Time
}

func NewRegistry(broker *Broker, factory Factory) *Registry {
	if factory == nil {
		factory = NewRemoteWidget
	}
	return &Registry{
		entries: make(map[string]*Entry),
		broker:  broker,
		factory: factory,
		now:     time.Now,
	}
}

func (r *Registry) Create(ids []string) *Entry {
	e := &Entry{ID: uuid.NewString()}
	e.Adapter = NewAdapter(r.factory, r.broker, func() { e.Session.OnPlaybackEnded() })
	e.Adapter.Attach(Container("player-" + e.ID))
	e.Session = NewSession(ids, e.Adapter)

	r.mu.Lock()
	e.lastSeen = r.now()
	r.entries[e.ID] = e
	n := len(r.entries)
	r.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	return e
}

// Get returns the entry and marks it as recently used.
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if ok {
		e.lastSeen = r.now()
	}
	return e, ok
}

// Remove tears the session's player down and forgets it.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	n := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.Session.Hide()
	e.Adapter.Close()
	metrics.SessionsActive.Set(float64(n))
	return true
}

// Reap removes sessions idle for longer than maxIdle and returns how many.
func (r *Registry) Reap(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Entry
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e)
			delete(r.entries, id)
		}
	}
	n := len(r.entries)
	r.mu.Unlock()

	for _, e := range stale {
		e.Session.Hide()
		e.Adapter.Close()
	}
	metrics.SessionsActive.Set(float64(n))
	metrics.SessionsReaped.Add(float64(len(stale)))
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) StartReaper(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("playback: reaper shutting down")
				return
			case <-ticker.C:
				if n := r.Reap(maxIdle); n > 0 {
					slog.Info("playback: reaped idle sessions", "count", n)
				}
			}
		}
	}()
}

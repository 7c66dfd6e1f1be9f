package playback

import (
	"log/slog"
	"sync"

	"github.com/tingleradar/tingleradar/internal/metrics"
)

// Adapter owns at most one widget instance at a time. The first load after
// Attach constructs the widget; later loads reuse it. When the widget library
// is not ready yet, one pending video is queued and created on readiness.
type Adapter struct {
	mu        sync.Mutex
	factory   Factory
	broker    *Broker
	onEnded   func()
	container Container
	attached  bool
	widget    Widget
	pending   string
	cancel    func()
	gen       uint64
}

// NewAdapter registers onEnded once; it is forwarded from whichever widget
// the adapter currently owns.
func NewAdapter(factory Factory, broker *Broker, onEnded func()) *Adapter {
	if broker == nil {
		broker = DefaultBroker()
	}
	return &Adapter{factory: factory, broker: broker, onEnded: onEnded}
}

// Attach binds the adapter to a container. Moving to a different container
// discards the current instance.
func (a *Adapter) Attach(c Container) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.attached && a.container != c {
		a.teardownLocked()
	}
	a.container = c
	a.attached = true
}

// LoadOrCreate plays videoID. Widget errors are logged and dropped; the
// result reports whether the video is now playing or queued behind readiness.
func (a *Adapter) LoadOrCreate(videoID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.attached || videoID == "" {
		return false
	}

	if a.widget != nil {
		if err := a.widget.LoadVideoByID(videoID); err != nil {
			slog.Debug("player: load failed", "container", a.container, "video_id", videoID, "error", err)
			return false
		}
		metrics.RecordPlayerLoad("reuse")
		return true
	}

	a.pending = videoID
	if a.cancel != nil {
		return true
	}
	cancel, ok := a.broker.Subscribe(a.onReady)
	if ok {
		a.cancel = cancel
		metrics.RecordPlayerLoad("deferred")
		return true
	}
	return a.createLocked()
}

func (a *Adapter) onReady() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancel = nil
	if !a.attached || a.widget != nil || a.pending == "" {
		return
	}
	a.createLocked()
}

func (a *Adapter) createLocked() bool {
	videoID := a.pending
	a.pending = ""

	w, err := a.factory(a.container, videoID, a.endedFor(a.gen))
	if err != nil {
		slog.Debug("player: create failed", "container", a.container, "video_id", videoID, "error", err)
		return false
	}
	a.widget = w
	metrics.RecordPlayerLoad("create")
	return true
}

// endedFor drops events from widgets that were torn down after creation.
func (a *Adapter) endedFor(gen uint64) func() {
	return func() {
		a.mu.Lock()
		stale := gen != a.gen || a.widget == nil
		cb := a.onEnded
		a.mu.Unlock()

		if stale || cb == nil {
			return
		}
		cb()
	}
}

// Teardown destroys the widget and forgets any queued load. It is safe to
// call at any time, including when nothing was ever created.
func (a *Adapter) Teardown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardownLocked()
}

func (a *Adapter) teardownLocked() {
	if a.widget != nil {
		a.widget.Destroy()
		a.widget = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.pending = ""
	a.gen++
}

// Close tears down and detaches; later loads are ignored until Attach.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teardownLocked()
	a.attached = false
}

func (a *Adapter) Widget() Widget {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.widget
}

// Pending is the video queued behind widget readiness, if any.
func (a *Adapter) Pending() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

package playlistsync

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/tingleradar/tingleradar/internal/metrics"
)

type State string

const (
	StateIdle      State = "idle"
	StateInFlight  State = "in_flight"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Result is the single, in-memory outcome of the latest sync.
type Result struct {
	State       State  `json:"status"`
	PlaylistURL string `json:"playlistUrl,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Navigator performs the full-page redirect to the authorization flow.
type Navigator interface {
	Navigate(url string)
}

type NavigatorFunc func(url string)

func (f NavigatorFunc) Navigate(url string) { f(url) }

type Backend interface {
	Authorized(ctx context.Context) (bool, error)
	AuthURL() string
	Push(ctx context.Context, req Request) (string, error)
}

var _ Backend = (*Client)(nil)

// Workflow checks authorization and then pushes the ordered id list. It does
// not serialize concurrent calls; callers must not start a sync while one is
// in flight.
type Workflow struct {
	backend Backend

	mu     sync.Mutex
	status Result
}

func NewWorkflow(backend Backend) *Workflow {
	return &Workflow{backend: backend, status: Result{State: StateIdle}}
}

func (w *Workflow) Status() Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Sync never returns an error: every failure becomes a failed Result. When
// the backend is not authorized, nav receives the authorization URL, nothing
// is pushed and the status returns to idle.
func (w *Workflow) Sync(ctx context.Context, req Request, nav Navigator) Result {
	if len(req.VideoIDs) == 0 {
		return w.Status()
	}
	req.VideoIDs = slices.Clone(req.VideoIDs)

	w.set(Result{State: StateInFlight})

	authorized, err := w.backend.Authorized(ctx)
	if err != nil {
		return w.fail("status check", err)
	}
	if !authorized {
		w.set(Result{State: StateIdle})
		if nav != nil {
			nav.Navigate(w.backend.AuthURL())
		}
		slog.Info("playlistsync: authorization required")
		return w.Status()
	}

	url, err := w.backend.Push(ctx, req)
	if err != nil {
		return w.fail("push", err)
	}

	slog.Info("playlistsync: playlist updated", "videos", len(req.VideoIDs), "playlist_url", url)
	metrics.RecordSync(string(StateSucceeded))
	return w.set(Result{State: StateSucceeded, PlaylistURL: url})
}

func (w *Workflow) fail(step string, err error) Result {
	msg := "YouTube sync failed"
	var re *ResponseError
	if errors.As(err, &re) {
		msg = re.Message
	}
	slog.Warn("playlistsync: "+step+" failed", "error", err)
	metrics.RecordSync(string(StateFailed))
	return w.set(Result{State: StateFailed, Message: msg})
}

func (w *Workflow) set(r Result) Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = r
	return r
}

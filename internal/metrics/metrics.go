package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tingleradar"

var (
	BrowseRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browse_requests_total",
		Help:      "Browse requests by outcome",
	}, []string{"outcome"})

	VisibleEntries = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "browse_visible_entries",
		Help:      "Entries left on a page after the filter predicate",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	Classifications = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifier_runs_total",
		Help:      "Entries classified from scratch (memo misses)",
	})

	SyncResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playlist_sync_total",
		Help:      "Playlist sync attempts by final state",
	}, []string{"state"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "playback_sessions_active",
		Help:      "Playback sessions currently held in memory",
	})

	SessionsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playback_sessions_reaped_total",
		Help:      "Idle playback sessions torn down by the reaper",
	})

	PlayerLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "player_loads_total",
		Help:      "Player loads by mode (create, reuse, deferred)",
	}, []string{"mode"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_rejected_total",
		Help:      "Requests rejected by the per-client limiter",
	})
)

// RecordBrowse counts a browse request and, on success, how many entries
// survived filtering.
func RecordBrowse(outcome string, visible int) {
	if outcome == "" {
		outcome = "unknown"
	}
	BrowseRequests.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		VisibleEntries.Observe(float64(visible))
	}
}

func RecordSync(state string) {
	if state == "" {
		state = "unknown"
	}
	SyncResults.WithLabelValues(state).Inc()
}

func RecordPlayerLoad(mode string) {
	PlayerLoads.WithLabelValues(mode).Inc()
}

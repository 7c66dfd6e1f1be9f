package server

import (
	"context"
	"io/fs"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tingleradar/tingleradar/internal/catalog"
	"github.com/tingleradar/tingleradar/internal/docs"
	"github.com/tingleradar/tingleradar/internal/httputil"
	"github.com/tingleradar/tingleradar/internal/playback"
	"github.com/tingleradar/tingleradar/internal/playlistsync"
	"github.com/tingleradar/tingleradar/internal/ratelimit"
	"github.com/tingleradar/tingleradar/internal/tagging"
	"github.com/tingleradar/tingleradar/internal/validate"
)

// CatalogSource is the backend catalog API.
type CatalogSource interface {
	ListVideos(ctx context.Context, q catalog.Query) (*catalog.Page, error)
	PopularChannels(ctx context.Context, limit int) ([]catalog.ChannelSummary, error)
}

type Config struct {
	Catalog             CatalogSource
	Sync                playlistsync.Backend
	Broker              *playback.Broker
	PlayerFactory       playback.Factory
	WebFS               fs.FS
	BaseURL             string
	PageSize            int
	ChannelLimit        int
	PlaylistTitle       string
	PlaylistDescription string
	SessionIdle         time.Duration
	EnableDocs          bool
}

type Server struct {
	router     chi.Router
	catalog    CatalogSource
	memo       *tagging.Memo
	broker     *playback.Broker
	sessions   *playback.Registry
	sync       *playlistsync.Workflow
	syncing    atomic.Bool
	webFS      fs.FS
	enableDocs bool

	pageSize            int
	channelLimit        int
	playlistTitle       string
	playlistDescription string
	sessionIdle         time.Duration
}

const (
	defaultPageSize            = 50
	defaultChannelLimit        = 40
	defaultSessionIdle         = 30 * time.Minute
	defaultPlaylistTitle       = "TingleRadar Weekly Playlist"
	defaultPlaylistDescription = "Weekly ASMR playlist curated by TingleRadar."
)

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{BaseURL: cfg.BaseURL}))

	broker := cfg.Broker
	if broker == nil {
		broker = playback.DefaultBroker()
	}

	s := &Server{
		router:              r,
		catalog:             cfg.Catalog,
		memo:                tagging.NewMemo(),
		broker:              broker,
		sessions:            playback.NewRegistry(broker, cfg.PlayerFactory),
		webFS:               cfg.WebFS,
		enableDocs:          cfg.EnableDocs,
		pageSize:            orDefault(cfg.PageSize, defaultPageSize),
		channelLimit:        orDefault(cfg.ChannelLimit, defaultChannelLimit),
		playlistTitle:       cfg.PlaylistTitle,
		playlistDescription: cfg.PlaylistDescription,
		sessionIdle:         cfg.SessionIdle,
	}
	if s.playlistTitle == "" {
		s.playlistTitle = defaultPlaylistTitle
	}
	if s.playlistDescription == "" {
		s.playlistDescription = defaultPlaylistDescription
	}
	if s.sessionIdle <= 0 {
		s.sessionIdle = defaultSessionIdle
	}
	if cfg.Sync != nil {
		s.sync = playlistsync.NewWorkflow(cfg.Sync)
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// StartReaper tears down playback sessions the browser stopped polling.
func (s *Server) StartReaper(ctx context.Context, interval time.Duration) {
	s.sessions.StartReaper(ctx, interval, s.sessionIdle)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/api/limits", s.handleLimits)
	s.router.Get("/api/facets", s.handleFacets)
	if s.enableDocs {
		s.router.Mount("/api/docs", docs.Router())
	}

	s.router.Route("/api/player", func(r chi.Router) {
		r.Get("/ready", s.handlePlayerStatus)
		r.Post("/ready", s.handlePlayerReady)
	})

	if s.catalog != nil {
		browseLimiter := ratelimit.NewLimiter(5, 20)
		s.router.Group(func(r chi.Router) {
			r.Use(browseLimiter.Middleware)
			r.Get("/api/browse", s.handleBrowse)
			r.Post("/api/browse/filters", s.handleFilterAction)
			r.Get("/api/channels", s.handleChannels)
		})

		s.router.Route("/api/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/show", s.sessionAction(func(e *playback.Entry) { e.Session.Show() }))
				r.Post("/hide", s.sessionAction(func(e *playback.Entry) { e.Session.Hide() }))
				r.Post("/next", s.sessionAction(func(e *playback.Entry) { e.Session.Advance() }))
				r.Post("/prev", s.sessionAction(func(e *playback.Entry) { e.Session.Retreat() }))
				r.Post("/ended", s.sessionAction(func(e *playback.Entry) { e.Ended() }))
				r.Post("/select", s.handleSelectIndex)
				r.Put("/list", s.handleReplaceList)
			})
		})
	}

	if s.catalog != nil && s.sync != nil {
		syncLimiter := ratelimit.NewLimiter(0.2, 3)
		s.router.Route("/api/playlists/sync", func(r chi.Router) {
			r.Get("/", s.handleSyncStatus)
			r.With(syncLimiter.Middleware).Post("/", s.handleSync)
		})
	}

	if s.webFS != nil {
		spa := newSPAFileServer(s.webFS)
		s.router.NotFound(spa.ServeHTTP)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, validate.FieldLimits())
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

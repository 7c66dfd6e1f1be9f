package server

import (
	"net/http"

	"github.com/tingleradar/tingleradar/internal/httputil"
	"github.com/tingleradar/tingleradar/internal/playlistsync"
	"github.com/tingleradar/tingleradar/internal/validate"
)

type syncRequest struct {
	Query       string `json:"query"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type syncResponse struct {
	playlistsync.Result
	RedirectURL string `json:"redirectUrl,omitempty"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		req.Title = s.playlistTitle
	}
	if req.Description == "" {
		req.Description = s.playlistDescription
	}
	if msg := validate.PlaylistTitle(req.Title); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validate.PlaylistDescription(req.Description); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	if !s.syncing.CompareAndSwap(false, true) {
		httputil.WriteError(w, http.StatusConflict, "sync already in progress")
		return
	}
	defer s.syncing.Store(false)

	ids, ok := s.resolveIDs(w, r, req.Query)
	if !ok {
		return
	}
	if msg := validate.VideoIDs(ids); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	var redirect string
	result := s.sync.Sync(r.Context(), playlistsync.Request{
		Title:       req.Title,
		Description: req.Description,
		VideoIDs:    ids,
	}, playlistsync.NavigatorFunc(func(url string) { redirect = url }))

	status := http.StatusOK
	if result.State == playlistsync.StateFailed {
		status = http.StatusBadGateway
	}
	httputil.WriteJSON(w, status, syncResponse{Result: result, RedirectURL: redirect})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.sync.Status())
}

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tingleradar/tingleradar/internal/httputil"
	"github.com/tingleradar/tingleradar/internal/playback"
)

type sessionResponse struct {
	ID string `json:"id"`
	playback.Status
	EmbedURL string `json:"embedUrl,omitempty"`
	Loads    int    `json:"loads"`
	Pending  string `json:"pending,omitempty"`
}

func toSessionResponse(e *playback.Entry) sessionResponse {
	st := e.Session.Status()
	return sessionResponse{
		ID:       e.ID,
		Status:   st,
		EmbedURL: playback.EmbedURL(st.CurrentID),
		Loads:    e.Loads(),
		Pending:  e.Adapter.Pending(),
	}
}

type listRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ids, ok := s.resolveIDs(w, r, req.Query)
	if !ok {
		return
	}

	e := s.sessions.Create(ids)
	slog.Info("playback: session created", "session_id", e.ID, "videos", len(ids))
	httputil.WriteJSON(w, http.StatusCreated, toSessionResponse(e))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(e))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Remove(chi.URLParam(r, "id")) {
		httputil.WriteError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionAction wraps a body-less session transition.
func (s *Server) sessionAction(fn func(e *playback.Entry)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := s.lookupSession(w, r)
		if !ok {
			return
		}
		fn(e)
		httputil.WriteJSON(w, http.StatusOK, toSessionResponse(e))
	}
}

func (s *Server) handleSelectIndex(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Index *int `json:"index"`
	}
	if err := httputil.DecodeJSON(w, r, &req); err != nil || req.Index == nil {
		httputil.WriteError(w, http.StatusBadRequest, "index is required")
		return
	}
	e.Session.SelectIndex(*req.Index)
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(e))
}

// handleReplaceList re-runs the filter for a new query and hands the result
// to the session, which clamps its position to the new list.
func (s *Server) handleReplaceList(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req listRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ids, ok := s.resolveIDs(w, r, req.Query)
	if !ok {
		return
	}
	e.Session.OnUnderlyingListChanged(ids)
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(e))
}

func (s *Server) handlePlayerReady(w http.ResponseWriter, r *http.Request) {
	pending := s.broker.Pending()
	s.broker.Ready()
	if pending > 0 {
		slog.Info("playback: widget ready", "deferred_players", pending)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func (s *Server) handlePlayerStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ready": s.broker.IsReady()})
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*playback.Entry, bool) {
	e, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return e, true
}

// resolveIDs writes the error response itself and reports whether the caller
// may continue.
func (s *Server) resolveIDs(w http.ResponseWriter, r *http.Request, rawQuery string) ([]string, bool) {
	ids, err := s.visibleIDs(r.Context(), rawQuery)
	if errors.Is(err, errBadQuery) {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err != nil {
		slog.Error("playback: catalog query failed", "error", err)
		httputil.WriteError(w, http.StatusBadGateway, upstreamMessage(err))
		return nil, false
	}
	return ids, true
}

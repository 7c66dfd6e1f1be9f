package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tingleradar/tingleradar/internal/catalog"
	"github.com/tingleradar/tingleradar/internal/filter"
	"github.com/tingleradar/tingleradar/internal/httputil"
	"github.com/tingleradar/tingleradar/internal/languages"
	"github.com/tingleradar/tingleradar/internal/metrics"
	"github.com/tingleradar/tingleradar/internal/tagging"
	"github.com/tingleradar/tingleradar/internal/urlstate"
	"github.com/tingleradar/tingleradar/internal/validate"
)

type itemResponse struct {
	catalog.Entry
	SemanticTags  []string `json:"semanticTags"`
	Labels        []string `json:"labels"`
	Language      string   `json:"language"`
	LanguageName  string   `json:"languageName"`
	DurationLabel string   `json:"durationLabel"`
}

type paginationResponse struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type browseResponse struct {
	Items            []itemResponse           `json:"items"`
	VideoIDs         []string                 `json:"videoIds"`
	Pagination       paginationResponse       `json:"pagination"`
	Filters          filter.State             `json:"filters"`
	Channels         []string                 `json:"channels"`
	Sort             urlstate.Sort            `json:"sort"`
	ActiveCount      int                      `json:"activeCount"`
	Query            string                   `json:"query"`
	ChannelDirectory []catalog.ChannelSummary `json:"channelDirectory"`
	Layout           layoutHint               `json:"layout"`
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	params := urlstate.Decode(r.URL.Query())

	var page *catalog.Page
	var directory []catalog.ChannelSummary

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		p, err := s.catalog.ListVideos(ctx, params.BackendQuery(s.pageSize))
		page = p
		return err
	})
	g.Go(func() error {
		ch, err := s.catalog.PopularChannels(ctx, s.channelLimit)
		if err != nil {
			slog.Warn("browse: channel directory unavailable", "error", err)
			return nil
		}
		directory = ch
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.Error("browse: catalog query failed", "error", err)
		metrics.RecordBrowse("upstream_error", 0)
		httputil.WriteError(w, http.StatusBadGateway, upstreamMessage(err))
		return
	}

	visible, ix := s.applyFilters(page.Items, params.Filters)

	items := make([]itemResponse, len(visible))
	for i, e := range visible {
		c := ix.Of(e)
		labels := make([]string, len(c.Tags))
		for j, t := range c.Tags {
			labels[j] = tagging.DisplayTag(t)
		}
		items[i] = itemResponse{
			Entry:         e,
			SemanticTags:  c.Tags,
			Labels:        labels,
			Language:      c.Language,
			LanguageName:  languages.LanguageName(c.Language),
			DurationLabel: catalog.FormatDuration(e.DurationSeconds()),
		}
	}
	if directory == nil {
		directory = []catalog.ChannelSummary{}
	}

	metrics.RecordBrowse("ok", len(visible))
	httputil.WriteJSON(w, http.StatusOK, browseResponse{
		Items:    items,
		VideoIDs: catalog.IDs(visible),
		Pagination: paginationResponse{
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      page.Total,
			TotalPages: page.TotalPages(),
			HasNext:    page.HasNext(),
			HasPrev:    page.HasPrev(),
		},
		Filters:          params.Filters,
		Channels:         nonNil(params.Channels),
		Sort:             params.Sort,
		ActiveCount:      params.ActiveCount(),
		Query:            params.Encode(r.URL.Query()).Encode(),
		ChannelDirectory: directory,
		Layout:           layoutFor(r),
	})
}

// applyFilters classifies a fetched page through the memo and evaluates the
// predicate over it.
func (s *Server) applyFilters(entries []catalog.Entry, state filter.State) ([]catalog.Entry, tagging.Index) {
	snapshot := catalog.NewSnapshot(entries)
	ix := s.memo.For(snapshot)
	return filter.Apply(snapshot.Entries(), ix, state), ix
}

// visibleIDs resolves a browse query string to the ordered ids a user sees.
func (s *Server) visibleIDs(ctx context.Context, rawQuery string) ([]string, error) {
	values, err := parseQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	params := urlstate.Decode(values)
	page, err := s.catalog.ListVideos(ctx, params.BackendQuery(s.pageSize))
	if err != nil {
		return nil, err
	}
	visible, _ := s.applyFilters(page.Items, params.Filters)
	return catalog.IDs(visible), nil
}

type filterActionRequest struct {
	Query  string `json:"query"`
	Action string `json:"action"`
	Value  string `json:"value"`
}

type filterActionResponse struct {
	Query       string       `json:"query"`
	Filters     filter.State `json:"filters"`
	ActiveCount int          `json:"activeCount"`
}

var errBadQuery = errors.New("invalid query string")

func (s *Server) handleFilterAction(w http.ResponseWriter, r *http.Request) {
	var req filterActionRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	base, err := parseQuery(req.Query)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := urlstate.Decode(base)
	next, msg := applyAction(params, req.Action, strings.TrimSpace(req.Value))
	if msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, filterActionResponse{
		Query:       next.Encode(base).Encode(),
		Filters:     next.Filters,
		ActiveCount: next.ActiveCount(),
	})
}

// applyAction maps one filter-panel interaction onto the decoded params. It
// returns a user-facing message when the action or value is not valid.
func applyAction(p urlstate.Params, action, value string) (urlstate.Params, string) {
	f := p.Filters
	switch action {
	case "duration":
		d := filter.ParseDuration(value)
		if d == filter.DurationAny {
			return p, "unknown duration bucket"
		}
		return p.WithFilters(f.ToggleDuration(d)), ""
	case "trigger":
		if !tagging.IsTriggerType(value) {
			return p, "unknown trigger type"
		}
		return p.WithFilters(f.ToggleTrigger(value)), ""
	case "talking_style":
		if !tagging.IsTalkingStyle(value) {
			return p, "unknown talking style"
		}
		return p.WithFilters(f.ToggleTalkingStyle(value)), ""
	case "scene":
		if !tagging.IsRoleplayScene(value) {
			return p, "unknown roleplay scene"
		}
		return p.WithFilters(f.ToggleScene(value)), ""
	case "language":
		if !languages.IsSupported(value) {
			return p, "unsupported language"
		}
		return p.WithFilters(f.ToggleLanguage(value)), ""
	case "exclude":
		if value == "" {
			return p, "excluded tag is required"
		}
		if msg := validate.ExcludeTag(value); msg != "" {
			return p, msg
		}
		return p.WithFilters(f.ToggleExclude(value)), ""
	case "channels":
		return p.WithChannels(strings.Split(value, ",")), ""
	case "sort":
		if !slices.Contains(urlstate.Sorts(), urlstate.Sort(value)) {
			return p, "unknown sort"
		}
		return p.WithSort(urlstate.Sort(value)), ""
	case "clear":
		return p.Cleared(), ""
	case "page":
		n, err := strconv.Atoi(value)
		if err != nil {
			return p, "page must be a number"
		}
		return p.WithPage(n), ""
	default:
		return p, "unknown action"
	}
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if msg := validate.ChannelQuery(q); msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	channels, err := s.catalog.PopularChannels(r.Context(), s.channelLimit)
	if err != nil {
		slog.Error("channels: directory fetch failed", "error", err)
		httputil.WriteError(w, http.StatusBadGateway, upstreamMessage(err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, catalog.SearchChannels(channels, q))
}

type facetOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type facetsResponse struct {
	Durations      []facetOption `json:"durations"`
	TriggerTypes   []facetOption `json:"triggerTypes"`
	TalkingStyles  []facetOption `json:"talkingStyles"`
	RoleplayScenes []facetOption `json:"roleplayScenes"`
	Languages      []facetOption `json:"languages"`
	Sorts          []string      `json:"sorts"`
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	resp := facetsResponse{
		TriggerTypes:   tagOptions(tagging.TriggerTypes()),
		TalkingStyles:  tagOptions(tagging.TalkingStyles()),
		RoleplayScenes: tagOptions(tagging.RoleplayScenes()),
	}
	for _, d := range filter.Durations() {
		resp.Durations = append(resp.Durations, facetOption{Value: string(d), Label: d.Label()})
	}
	for _, l := range languages.Languages() {
		resp.Languages = append(resp.Languages, facetOption{Value: l.Code, Label: l.Name})
	}
	for _, so := range urlstate.Sorts() {
		resp.Sorts = append(resp.Sorts, string(so))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func tagOptions(tags []string) []facetOption {
	out := make([]facetOption, len(tags))
	for i, t := range tags {
		out[i] = facetOption{Value: t, Label: tagging.DisplayTag(t)}
	}
	return out
}

func parseQuery(raw string) (url.Values, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, errBadQuery
	}
	return values, nil
}

func upstreamMessage(err error) string {
	var he *catalog.HTTPError
	if errors.As(err, &he) {
		return "catalog backend returned " + strconv.Itoa(he.StatusCode)
	}
	return "catalog backend unavailable"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

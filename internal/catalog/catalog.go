package catalog

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Entry is a single video record as returned by the backend catalog API.
type Entry struct {
	ID           string   `json:"youtube_id"`
	Title        string   `json:"title"`
	ChannelID    string   `json:"channel_id"`
	ChannelTitle string   `json:"channel_title"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
	ViewCount    int64    `json:"view_count"`
	LikeCount    int64    `json:"like_count"`
	Description  *string  `json:"description,omitempty"`
	Duration     *int     `json:"duration,omitempty"`
	PublishedAt  *string  `json:"published_at,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	ComputedTags []string `json:"computed_tags,omitempty"`
}

// DurationSeconds returns the duration, or 0 when the backend does not know it.
func (e Entry) DurationSeconds() int {
	if e.Duration == nil {
		return 0
	}
	return *e.Duration
}

func (e Entry) DescriptionText() string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}

type Page struct {
	Items    []Entry `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

func (p *Page) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(float64(p.Total)/float64(p.PageSize))))
}

func (p *Page) HasNext() bool {
	return p.Page < p.TotalPages()
}

func (p *Page) HasPrev() bool {
	return p.Page > 1
}

type ChannelSummary struct {
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
	VideoCount   int    `json:"video_count"`
}

const maxChannelMatches = 20

// SearchChannels returns up to 20 channels whose title contains query,
// ignoring case. An empty query returns the head of the directory.
func SearchChannels(channels []ChannelSummary, query string) []ChannelSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]ChannelSummary, 0, min(len(channels), maxChannelMatches))
	for _, c := range channels {
		if len(out) == maxChannelMatches {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(c.ChannelTitle), q) {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot is an immutable ordered list of entries. A new Snapshot is built
// whenever the underlying list changes; consumers never patch one in place.
type Snapshot struct {
	entries []Entry
}

func NewSnapshot(entries []Entry) *Snapshot {
	return &Snapshot{entries: slices.Clone(entries)}
}

// Entries returns the snapshot contents. Callers must not modify the slice.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IDs returns the entry identifiers in order.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// Query is the parameter set accepted by the backend's video listing endpoint.
type Query struct {
	Page           int
	PageSize       int
	DurationBucket string
	Tags           []string
	Channels       []string
	Language       string
	Sort           string
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.DurationBucket != "" {
		v.Set("duration_bucket", q.DurationBucket)
	}
	if len(q.Tags) > 0 {
		v.Set("tags", strings.Join(q.Tags, ","))
	}
	if len(q.Channels) > 0 {
		v.Set("channels", strings.Join(q.Channels, ","))
	}
	if q.Language != "" {
		v.Set("language", q.Language)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// FormatDuration renders a duration for display: "Unknown", "12 min", "1h 5m".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	mins := int(math.Round(float64(seconds) / 60))
	if mins < 60 {
		return fmt.Sprintf("%d min", mins)
	}
	h, m := mins/60, mins%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

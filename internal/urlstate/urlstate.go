// Package urlstate maps filter, channel, sort and page selections to and from
// the browse query string, which is the shareable form of the browse view.
package urlstate

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/tingleradar/tingleradar/internal/catalog"
	"github.com/tingleradar/tingleradar/internal/filter"
	"github.com/tingleradar/tingleradar/internal/languages"
	"github.com/tingleradar/tingleradar/internal/tagging"
)

const (
	paramDuration = "duration"
	paramTags     = "tags"
	paramLanguage = "language"
	paramExclude  = "exclude"
	paramChannels = "channels"
	paramSort     = "sort"
	paramPage     = "page"
)

type Sort string

const (
	SortPublished Sort = "published_desc"
	SortViews     Sort = "views_desc"
	SortLikes     Sort = "likes_desc"
)

// DefaultSort is never written to the URL; absence means default.
const DefaultSort = SortPublished

func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortViews, SortLikes:
		return Sort(s)
	default:
		return DefaultSort
	}
}

func Sorts() []Sort {
	return []Sort{SortPublished, SortViews, SortLikes}
}

// Params is everything the browse URL carries.
type Params struct {
	Filters  filter.State
	Channels []string
	Sort     Sort
	// Page is 1-based. Zero leaves the page parameter out of the URL.
	Page int
	// ExtraTags are members of the tags parameter outside every facet
	// vocabulary. They are carried through untouched on re-encode.
	ExtraTags []string
}

// Decode never fails: malformed or unknown values fall back to defaults.
func Decode(v url.Values) Params {
	var triggers, styles, scenes, extra []string
	for _, tag := range splitList(v.Get(paramTags)) {
		switch {
		case tagging.IsTriggerType(tag):
			triggers = append(triggers, tag)
		case tagging.IsTalkingStyle(tag):
			styles = append(styles, tag)
		case tagging.IsRoleplayScene(tag):
			scenes = append(scenes, tag)
		default:
			extra = append(extra, tag)
		}
	}

	var langs []string
	if lang := strings.TrimSpace(v.Get(paramLanguage)); languages.IsSupported(lang) {
		langs = []string{lang}
	}

	// New restores the roleplay marker that Encode omits next to scenes.
	state := filter.New(filter.State{
		Duration:      filter.ParseDuration(v.Get(paramDuration)),
		Triggers:      triggers,
		TalkingStyles: styles,
		Scenes:        scenes,
		Languages:     langs,
		Exclude:       splitList(v.Get(paramExclude)),
	})

	return Params{
		Filters:   state,
		Channels:  splitList(v.Get(paramChannels)),
		Sort:      ParseSort(v.Get(paramSort)),
		Page:      parsePage(v.Get(paramPage)),
		ExtraTags: extra,
	}
}

// Encode writes p over a copy of base. Parameters Params does not own are
// preserved as-is.
func (p Params) Encode(base url.Values) url.Values {
	out := cloneValues(base)
	f := p.Filters

	setOrDelete(out, paramDuration, string(f.Duration))

	lang := ""
	if len(f.Languages) > 0 {
		lang = f.Languages[0]
	}
	setOrDelete(out, paramLanguage, lang)

	setOrDelete(out, paramTags, strings.Join(p.Tags(), ","))
	setOrDelete(out, paramExclude, strings.Join(f.Exclude, ","))
	setOrDelete(out, paramChannels, strings.Join(p.Channels, ","))

	if p.Sort == "" || p.Sort == DefaultSort {
		out.Del(paramSort)
	} else {
		out.Set(paramSort, string(p.Sort))
	}

	if p.Page > 0 {
		out.Set(paramPage, strconv.Itoa(p.Page))
	} else {
		out.Del(paramPage)
	}
	return out
}

// Tags is the merged tags list: preserved extras first, then the facet
// selections. The roleplay marker is dropped whenever a scene is selected so
// the backend's OR narrows to the scenes.
func (p Params) Tags() []string {
	f := p.Filters
	tags := slices.Clone(p.ExtraTags)
	for _, t := range f.Triggers {
		if t == tagging.Roleplay && len(f.Scenes) > 0 {
			continue
		}
		tags = append(tags, t)
	}
	tags = append(tags, f.TalkingStyles...)
	tags = append(tags, f.Scenes...)
	return tags
}

// PageNumber is the effective 1-based page.
func (p Params) PageNumber() int {
	return max(1, p.Page)
}

// WithFilters replaces the filter selection and resets to the first page.
func (p Params) WithFilters(s filter.State) Params {
	p.Filters = filter.New(s)
	p.Page = 1
	return p
}

// WithSort applies a sort chip click: choosing the default or the already
// active sort returns to the default. Resets to the first page.
func (p Params) WithSort(s Sort) Params {
	s = ParseSort(string(s))
	if s == DefaultSort || s == p.Sort {
		p.Sort = DefaultSort
	} else {
		p.Sort = s
	}
	p.Page = 1
	return p
}

// WithChannels replaces the channel selection and resets to the first page.
func (p Params) WithChannels(ids []string) Params {
	p.Channels = splitList(strings.Join(ids, ","))
	p.Page = 1
	return p
}

// WithPage is direct pagination; filters pass through untouched.
func (p Params) WithPage(n int) Params {
	p.Page = max(1, n)
	return p
}

// Cleared drops every filter, sort and page selection, including unknown
// tags. The channel selection survives.
func (p Params) Cleared() Params {
	return Params{Channels: slices.Clone(p.Channels), Sort: DefaultSort}
}

func (p Params) HasAnyFilter() bool {
	return !p.Filters.IsZero() || len(p.Channels) > 0 || (p.Sort != "" && p.Sort != DefaultSort)
}

func (p Params) ActiveCount() int {
	n := p.Filters.ActiveCount()
	if len(p.Channels) > 0 {
		n++
	}
	if p.Sort != "" && p.Sort != DefaultSort {
		n++
	}
	return n
}

// BackendQuery derives the catalog API query for these params.
func (p Params) BackendQuery(pageSize int) catalog.Query {
	q := catalog.Query{
		Page:           p.PageNumber(),
		PageSize:       pageSize,
		DurationBucket: string(p.Filters.Duration),
		Tags:           p.Tags(),
		Channels:       slices.Clone(p.Channels),
	}
	if len(p.Filters.Languages) > 0 {
		q.Language = p.Filters.Languages[0]
	}
	if p.Sort != DefaultSort {
		q.Sort = string(p.Sort)
	}
	return q
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePage returns 0, meaning "not set", for absent or unusable values so
// that re-encoding does not add a page param the URL never had.
func parsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func setOrDelete(v url.Values, key, value string) {
	if value == "" {
		v.Del(key)
		return
	}
	v.Set(key, value)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = slices.Clone(vals)
	}
	return out
}

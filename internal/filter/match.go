package filter

import (
	"slices"

	"github.com/tingleradar/tingleradar/internal/catalog"
	"github.com/tingleradar/tingleradar/internal/tagging"
)

// Matches reports whether an entry passes every facet of s. Facets with an
// empty selection impose no constraint. Excluded tags reject regardless of
// any other facet.
func Matches(e catalog.Entry, c tagging.Classification, s State) bool {
	if c.HasAny(s.Exclude) {
		return false
	}
	if !s.Duration.Contains(e.DurationSeconds()) {
		return false
	}
	if len(s.Triggers) > 0 && !c.HasAny(s.Triggers) {
		return false
	}
	if len(s.TalkingStyles) > 0 && !c.HasAny(s.TalkingStyles) {
		return false
	}
	if len(s.Scenes) > 0 && (!c.Has(tagging.Roleplay) || !c.HasAny(s.Scenes)) {
		return false
	}
	if len(s.Languages) > 0 && !slices.Contains(s.Languages, c.Language) {
		return false
	}
	return true
}

// Apply returns the entries that match s, in their original order. The input
// slice is never modified.
func Apply(entries []catalog.Entry, ix tagging.Index, s State) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, ix.Of(e), s) {
			out = append(out, e)
		}
	}
	return out
}

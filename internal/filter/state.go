package filter

import (
	"slices"
	"strings"

	"github.com/tingleradar/tingleradar/internal/languages"
	"github.com/tingleradar/tingleradar/internal/tagging"
)

// State is the active selection across all facets. Values are treated as
// immutable: every mutator returns a fresh State built through New, which is
// the only place the scene⇒roleplay rule is enforced.
type State struct {
	Duration      Duration `json:"duration,omitempty"`
	Triggers      []string `json:"triggers,omitempty"`
	TalkingStyles []string `json:"talkingStyles,omitempty"`
	Scenes        []string `json:"roleplayScenes,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	Exclude       []string `json:"exclude,omitempty"`
}

// New normalizes s. Tag facets keep only vocabulary members, deduplicated and
// in vocabulary order. Languages keep selection order so the first pick wins
// when a single language is encoded. Exclude keeps arbitrary non-empty tags in
// selection order. A non-empty scene selection forces the roleplay marker.
func New(s State) State {
	out := State{
		Duration:      ParseDuration(string(s.Duration)),
		Triggers:      inVocabularyOrder(s.Triggers, tagging.TriggerTypes()),
		TalkingStyles: inVocabularyOrder(s.TalkingStyles, tagging.TalkingStyles()),
		Scenes:        inVocabularyOrder(s.Scenes, tagging.RoleplayScenes()),
		Languages:     uniqueKeep(s.Languages, languages.IsSupported),
		Exclude:       uniqueKeep(splitTags(s.Exclude), func(t string) bool { return t != "" }),
	}

	if len(out.Scenes) > 0 && !slices.Contains(out.Triggers, tagging.Roleplay) {
		out.Triggers = inVocabularyOrder(append(out.Triggers, tagging.Roleplay), tagging.TriggerTypes())
	}
	return out
}

func (s State) IsZero() bool {
	return s.Duration == DurationAny &&
		len(s.Triggers) == 0 &&
		len(s.TalkingStyles) == 0 &&
		len(s.Scenes) == 0 &&
		len(s.Languages) == 0 &&
		len(s.Exclude) == 0
}

// ActiveCount is the number of individual selections, as shown on the filter
// header badge.
func (s State) ActiveCount() int {
	n := len(s.Triggers) + len(s.TalkingStyles) + len(s.Scenes) + len(s.Languages) + len(s.Exclude)
	if s.Duration != DurationAny {
		n++
	}
	return n
}

// ToggleDuration selects d, or clears the bucket when d is already selected.
func (s State) ToggleDuration(d Duration) State {
	next := s.clone()
	if s.Duration == d {
		next.Duration = DurationAny
	} else {
		next.Duration = d
	}
	return New(next)
}

// ToggleTrigger flips a trigger type. Turning roleplay off also drops every
// scene, since scenes cannot stand without it.
func (s State) ToggleTrigger(tag string) State {
	next := s.clone()
	active := slices.Contains(s.Triggers, tag)
	next.Triggers = toggle(s.Triggers, tag)
	if tag == tagging.Roleplay && active {
		next.Scenes = nil
	}
	return New(next)
}

func (s State) ToggleTalkingStyle(tag string) State {
	next := s.clone()
	next.TalkingStyles = toggle(s.TalkingStyles, tag)
	return New(next)
}

// ToggleScene flips a roleplay scene. Removing the last scene leaves the
// roleplay marker selected.
func (s State) ToggleScene(tag string) State {
	next := s.clone()
	next.Scenes = toggle(s.Scenes, tag)
	return New(next)
}

func (s State) ToggleLanguage(code string) State {
	next := s.clone()
	next.Languages = toggle(s.Languages, code)
	return New(next)
}

func (s State) ToggleExclude(tag string) State {
	next := s.clone()
	next.Exclude = toggle(s.Exclude, strings.TrimSpace(tag))
	return New(next)
}

func (s State) clone() State {
	return State{
		Duration:      s.Duration,
		Triggers:      slices.Clone(s.Triggers),
		TalkingStyles: slices.Clone(s.TalkingStyles),
		Scenes:        slices.Clone(s.Scenes),
		Languages:     slices.Clone(s.Languages),
		Exclude:       slices.Clone(s.Exclude),
	}
}

func toggle(list []string, v string) []string {
	if slices.Contains(list, v) {
		return slices.DeleteFunc(slices.Clone(list), func(x string) bool { return x == v })
	}
	return append(slices.Clone(list), v)
}

func inVocabularyOrder(selected, vocabulary []string) []string {
	var out []string
	for _, v := range vocabulary {
		if slices.Contains(selected, v) {
			out = append(out, v)
		}
	}
	return out
}

func uniqueKeep(values []string, keep func(string) bool) []string {
	var out []string
	for _, v := range values {
		if keep(v) && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// splitTags trims each value and splits comma-joined values apart, since a
// comma cannot survive the URL encoding as part of a single tag.
func splitTags(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			out = append(out, strings.TrimSpace(part))
		}
	}
	return out
}

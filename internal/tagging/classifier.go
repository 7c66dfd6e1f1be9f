package tagging

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tingleradar/tingleradar/internal/catalog"
	"github.com/tingleradar/tingleradar/internal/languages"
)

// Classification is the derived facet view of a catalog entry.
type Classification struct {
	Tags     []string `json:"tags"`
	Language string   `json:"language"`
}

func (c Classification) Has(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// HasAny reports whether at least one of tags is present.
func (c Classification) HasAny(tags []string) bool {
	for _, t := range tags {
		if c.Has(t) {
			return true
		}
	}
	return false
}

type rule struct {
	tag      string
	keywords []string
	// implies is added alongside tag when the rule matches.
	implies string
}

// Keywords are lowercase; the corpus is folded before matching.
var rules = []rule{
	{tag: "whisper", keywords: []string{"whisper", "耳语", "whispering"}},
	{tag: "soft_spoken", keywords: []string{"soft spoken", "soft-spoken"}},
	{tag: "no_talking", keywords: []string{"no talking", "no-talking", "不讲话"}},

	{tag: "tapping", keywords: []string{"tapping", "敲击", "knuckle"}},
	{tag: "scratching", keywords: []string{"scratching", "scratch", "抓挠"}},
	{tag: "crinkling", keywords: []string{"crinkle", "crinkling", "包装袋", "塑料袋"}},
	{tag: "brushing", keywords: []string{"brushing", "brush sounds", "耳刷", "hair brushing"}},
	{tag: "ear_cleaning", keywords: []string{"ear cleaning", "ear massage", "耳搔", "耳朵清洁"}},
	{tag: "mouth_sounds", keywords: []string{"mouth sounds", "口腔音", "tongue clicking"}},
	{tag: "white_noise", keywords: []string{"white noise", "fan noise", "air conditioner", "雨声", "rain sounds"}},
	{tag: "binaural", keywords: []string{"binaural", "3dio", "双耳"}},
	{tag: "visual_asmr", keywords: []string{"visual asmr", "light triggers", "hand movements", "tracing", "visual triggers"}},
	{tag: "layered", keywords: []string{"layered asmr", "layered sounds", "soundscape", "multi-layer"}},

	{tag: Roleplay, keywords: []string{"roleplay", "r.p", "场景", "girlfriend roleplay", "doctor roleplay"}},

	{tag: "rp_haircut", keywords: []string{"haircut", "hair cut", "barber", "理发"}, implies: Roleplay},
	{tag: "rp_cranial", keywords: []string{"cranial nerve exam", "cranial nerve", "神经检查"}, implies: Roleplay},
	{tag: "rp_dentist", keywords: []string{"dentist", "dental", "tooth exam", "牙医"}, implies: Roleplay},
}

// Classify derives facet tags and language for an entry. Backend-computed tags
// always win over the keyword heuristic. Language comes from the title only.
func Classify(e catalog.Entry) Classification {
	c := Classification{Language: languages.Detect(e.Title)}
	if len(e.ComputedTags) > 0 {
		c.Tags = slices.Clone(e.ComputedTags)
		return c
	}
	c.Tags = detectTags(corpus(e))
	return c
}

func corpus(e catalog.Entry) string {
	parts := make([]string, 0, len(e.Tags)+2)
	parts = append(parts, e.Title, e.DescriptionText())
	parts = append(parts, e.Tags...)
	// Casers carry state, so one per call keeps Classify safe for concurrent use.
	return cases.Lower(language.Und).String(strings.Join(parts, " "))
}

func detectTags(bag string) []string {
	matched := make(map[string]bool)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(bag, kw) {
				matched[r.tag] = true
				if r.implies != "" {
					matched[r.implies] = true
				}
				break
			}
		}
	}

	tags := make([]string, 0, len(matched))
	for _, r := range rules {
		if matched[r.tag] {
			tags = append(tags, r.tag)
		}
	}
	return tags
}

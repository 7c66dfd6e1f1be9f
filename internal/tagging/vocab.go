package tagging

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Roleplay is the generic trigger marker that roleplay scenes hang off.
const Roleplay = "roleplay"

var triggerTypes = []string{
	"tapping",
	"scratching",
	"crinkling",
	"brushing",
	"ear_cleaning",
	"mouth_sounds",
	"white_noise",
	"binaural",
	"visual_asmr",
	"layered",
	Roleplay,
}

var talkingStyles = []string{
	"whisper",
	"soft_spoken",
	"no_talking",
}

var roleplayScenes = []string{
	"rp_haircut",
	"rp_cranial",
	"rp_dentist",
}

var labels = map[string]string{
	"tapping":      "Tapping",
	"scratching":   "Scratching",
	"crinkling":    "Crinkling",
	"brushing":     "Brushing",
	"ear_cleaning": "Ear cleaning",
	"mouth_sounds": "Mouth sounds",
	"white_noise":  "White noise",
	"binaural":     "Binaural",
	"visual_asmr":  "Visual ASMR",
	"layered":      "Layered sounds",
	"whisper":      "Whisper",
	"soft_spoken":  "Soft spoken",
	"no_talking":   "No talking",
	Roleplay:       "Roleplay",
	"rp_haircut":   "Haircut",
	"rp_cranial":   "Cranial nerve exam",
	"rp_dentist":   "Dentist",
}

func TriggerTypes() []string   { return slices.Clone(triggerTypes) }
func TalkingStyles() []string  { return slices.Clone(talkingStyles) }
func RoleplayScenes() []string { return slices.Clone(roleplayScenes) }

func IsTriggerType(tag string) bool   { return slices.Contains(triggerTypes, tag) }
func IsTalkingStyle(tag string) bool  { return slices.Contains(talkingStyles, tag) }
func IsRoleplayScene(tag string) bool { return slices.Contains(roleplayScenes, tag) }

// IsFacetTag reports whether tag belongs to any of the filterable tag vocabularies.
func IsFacetTag(tag string) bool {
	return IsTriggerType(tag) || IsTalkingStyle(tag) || IsRoleplayScene(tag)
}

// DisplayTag converts an internal snake_case tag id into a human label.
func DisplayTag(tag string) string {
	if label, ok := labels[tag]; ok {
		return label
	}
	parts := strings.Split(tag, "_")
	for i, part := range parts {
		if part != "" {
			r, size := utf8.DecodeRuneInString(part)
			parts[i] = string(unicode.ToUpper(r)) + part[size:]
		}
	}
	return strings.Join(parts, " ")
}

package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text field length limits shared by the API and the browser shell.
const (
	MaxPlaylistTitleLength       = 150
	MaxPlaylistDescriptionLength = 5000
	MaxExcludeTagLength          = 50
	MaxChannelQueryLength        = 100
	MaxVideoIDs                  = 500
)

func checkLen(value string, max int, field string) string {
	if utf8.RuneCountInString(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func PlaylistTitle(s string) string { return checkLen(s, MaxPlaylistTitleLength, "playlist title") }
func PlaylistDescription(s string) string {
	return checkLen(s, MaxPlaylistDescriptionLength, "playlist description")
}

// ExcludeTag also rejects commas, which separate tags in the shared URL.
func ExcludeTag(s string) string {
	if strings.Contains(s, ",") {
		return "excluded tag must not contain commas"
	}
	return checkLen(s, MaxExcludeTagLength, "excluded tag")
}

func ChannelQuery(s string) string { return checkLen(s, MaxChannelQueryLength, "channel search") }

func VideoIDs(ids []string) string {
	if len(ids) > MaxVideoIDs {
		return fmt.Sprintf("playlist must have %d videos or fewer", MaxVideoIDs)
	}
	return ""
}

// FieldLimits returns a map of field names to max lengths for the /api/limits endpoint.
func FieldLimits() map[string]int {
	return map[string]int{
		"playlistTitle":       MaxPlaylistTitleLength,
		"playlistDescription": MaxPlaylistDescriptionLength,
		"excludeTag":          MaxExcludeTagLength,
		"channelQuery":        MaxChannelQueryLength,
		"videoIds":            MaxVideoIDs,
	}
}

package languages

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	English  = "en"
	Japanese = "ja"
	Korean   = "ko"
	Chinese  = "zh"
)

// Default is reported when a title carries no recognizable script.
const Default = English

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var catalogLanguages = []Language{
	{Code: English, Name: "English"},
	{Code: Japanese, Name: "Japanese"},
	{Code: Korean, Name: "Korean"},
	{Code: Chinese, Name: "Chinese"},
}

var languageNames = func() map[string]string {
	m := make(map[string]string, len(catalogLanguages))
	for _, l := range catalogLanguages {
		m[l.Code] = l.Name
	}
	return m
}()

func LanguageName(code string) string {
	return languageNames[code]
}

func IsSupported(code string) bool {
	_, ok := languageNames[code]
	return ok
}

// Languages returns the filterable languages in display order.
func Languages() []Language {
	out := make([]Language, len(catalogLanguages))
	copy(out, catalogLanguages)
	return out
}

func Codes() []string {
	codes := make([]string, len(catalogLanguages))
	for i, l := range catalogLanguages {
		codes[i] = l.Code
	}
	return codes
}

// Kana (hiragana, katakana, phonetic extensions).
var japaneseScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x30ff, Stride: 1},
		{Lo: 0x31f0, Hi: 0x31ff, Stride: 1},
	},
}

// Precomposed Hangul syllables.
var koreanScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xac00, Hi: 0xd7af, Stride: 1},
	},
}

// CJK unified ideographs.
var chineseScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
	},
}

// Priority matters: Japanese titles routinely contain Han characters, so kana
// is checked before Han.
var detectors = []struct {
	code  string
	table *unicode.RangeTable
}{
	{Japanese, japaneseScript},
	{Korean, koreanScript},
	{Chinese, chineseScript},
}

// Detect guesses the language of a title from the first matching script block.
func Detect(title string) string {
	if title == "" {
		return Default
	}
	// Decomposed Hangul jamo only fall into the syllable block once composed.
	composed := norm.NFC.String(title)
	for _, d := range detectors {
		if strings.IndexFunc(composed, func(r rune) bool { return unicode.Is(d.table, r) }) >= 0 {
			return d.code
		}
	}
	return Default
}

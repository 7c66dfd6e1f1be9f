package languages

import "testing"

func TestIsSupported(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"en", true},
		{"ja", true},
		{"ko", true},
		{"zh", true},
		{"", false},
		{"de", false},
		{"english", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsSupported(tt.code); got != tt.valid {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.code, got, tt.valid)
			}
		})
	}
}

func TestLanguages_HasDisplayNames(t *testing.T) {
	langs := Languages()
	if len(langs) != 4 {
		t.Errorf("expected 4 languages, got %d", len(langs))
	}
	for _, l := range langs {
		if l.Code == "" || l.Name == "" {
			t.Errorf("language with empty code or name: %+v", l)
		}
		if LanguageName(l.Code) != l.Name {
			t.Errorf("LanguageName(%q) = %q, want %q", l.Code, LanguageName(l.Code), l.Name)
		}
	}
}

func TestLanguages_ReturnsCopy(t *testing.T) {
	langs := Languages()
	langs[0].Name = "changed"
	if LanguageName(English) != "English" {
		t.Error("expected package vocabulary to be unaffected by caller mutation")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"empty", "", "en"},
		{"latin", "Tapping and Scratching ASMR", "en"},
		{"hiragana", "ささやき 耳かき", "ja"},
		{"katakana only", "タッピング", "ja"},
		{"kana wins over han", "耳かき音", "ja"},
		{"hangul", "팅글 ASMR", "ko"},
		{"han only", "耳语 敲击", "zh"},
		{"hangul wins over han", "한국 漢字", "ko"},
		{"decomposed hangul", "\u1112\u1161\u11ab", "ko"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.title); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestCodesOrder(t *testing.T) {
	codes := Codes()
	want := []string{"en", "ja", "ko", "zh"}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("Codes()[%d] = %q, want %q", i, codes[i], want[i])
		}
	}
}

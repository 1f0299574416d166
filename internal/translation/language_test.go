package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "en", "en"},
		{"uppercase", "EN", "en"},
		{"mixed case", "Ja", "ja"},
		{"region subtag", "en-US", "en"},
		{"script subtag", "zh-Hans", "zh"},
		{"underscore separator", "ZH_HANS", "zh"},
		{"surrounding whitespace", "  fr ", "fr"},
		{"legacy indonesian", "in", "id"},
		{"legacy hebrew", "iw", "he"},
		{"legacy yiddish", "ji", "yi"},
		{"legacy with region", "IW-IL", "he"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLanguage(tt.input))
		})
	}
}

func TestNormalizeLanguage_Idempotent(t *testing.T) {
	for _, code := range []string{"en", "EN-us", "zh-Hans", "in", "iw", ""} {
		once := NormalizeLanguage(code)
		assert.Equal(t, once, NormalizeLanguage(once), "normalizing %q twice must match normalizing once", code)
	}
}

func TestSameLanguage(t *testing.T) {
	assert.True(t, SameLanguage("en", "en"))
	assert.True(t, SameLanguage("en-US", "en-GB"))
	assert.True(t, SameLanguage("ZH_HANS", "zh-Hant"))
	assert.True(t, SameLanguage("in", "id"))
	assert.False(t, SameLanguage("en", "ja"))
	assert.False(t, SameLanguage("", ""), "empty tags never match")
	assert.False(t, SameLanguage("", "en"))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Japanese", LanguageName("ja"))
	assert.Equal(t, "English", LanguageName("en-US"))
	assert.Equal(t, "xx", LanguageName("xx"), "unknown codes fall back to the raw code")
}

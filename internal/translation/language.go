package translation

import "strings"

// legacyCodes maps deprecated ISO 639-1 codes, still emitted by some backends,
// to their modern equivalents.
var legacyCodes = map[string]string{
	"in": "id", // Indonesian
	"iw": "he", // Hebrew
	"ji": "yi", // Yiddish
}

// languageNames maps common language codes to English names used when
// building LLM prompts. Unknown codes fall back to the raw code.
var languageNames = map[string]string{
	"en": "English",
	"id": "Indonesian",
	"ja": "Japanese",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"zh": "Chinese",
	"ko": "Korean",
}

// NormalizeLanguage reduces a language tag to a comparable base code:
// lowercase, region and script subtags stripped, legacy codes mapped.
// NormalizeLanguage("zh-Hans") == NormalizeLanguage("ZH_HANS") == "zh".
// The function is idempotent.
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	if mapped, ok := legacyCodes[code]; ok {
		return mapped
	}
	return code
}

// LanguageName returns the English name for a language code, or the code
// itself when unknown.
func LanguageName(code string) string {
	if name, ok := languageNames[NormalizeLanguage(code)]; ok {
		return name
	}
	return code
}

// SameLanguage reports whether two language tags refer to the same base
// language after normalization. Empty tags never match anything.
func SameLanguage(a, b string) bool {
	na, nb := NormalizeLanguage(a), NormalizeLanguage(b)
	return na != "" && na == nb
}

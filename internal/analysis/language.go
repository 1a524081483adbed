package analysis

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Language is a supported reply language.
type Language string

const (
	Spanish Language = "es"
	English Language = "en"
)

// ParseLanguage maps an ISO 639-1 code to a Language.
func ParseLanguage(code string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(code))) {
	case Spanish:
		return Spanish, true
	case English:
		return English, true
	default:
		return "", false
	}
}

var detectOptions = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{whatlanggo.Spa: true, whatlanggo.Eng: true},
}

// DetectLanguage guesses between Spanish and English, returning fallback
// for blank text or when detection fails. Short or mixed text may be
// misclassified.
func DetectLanguage(text string, fallback Language) Language {
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	info := whatlanggo.DetectWithOptions(text, detectOptions)
	if lang, ok := ParseLanguage(info.Lang.Iso6391()); ok {
		return lang
	}
	return fallback
}

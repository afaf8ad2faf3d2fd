// Package i18n resolves dashboard labels in the supported languages and
// formats figures for display.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLanguage is used when nothing else matches and as the lookup fallback.
const DefaultLanguage = "pt"

var supported = []language.Tag{language.Portuguese, language.English, language.Spanish}

var matcher = language.NewMatcher(supported)

// Languages returns the supported language codes, default first.
func Languages() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		b, _ := t.Base()
		out[i] = b.String()
	}
	return out
}

// Normalize maps a BCP 47 tag such as "pt-BR" or "en_US" to a supported
// language code. It returns false when the tag is malformed or matches none.
func Normalize(lang string) (string, bool) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "", false
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	b, _ := supported[idx].Base()
	return b.String(), true
}

// T returns the label for key in lang, falling back to Portuguese and then to
// the key itself.
func T(lang, key string) string {
	if v, ok := catalog[lang][key]; ok {
		return v
	}
	if v, ok := catalog[DefaultLanguage][key]; ok {
		return v
	}
	return key
}

// Translator binds T to a language.
type Translator func(key string) string

// For returns a Translator for lang; unsupported languages resolve through
// the fallback chain.
func For(lang string) Translator {
	if norm, ok := Normalize(lang); ok {
		lang = norm
	}
	return func(key string) string { return T(lang, key) }
}

func printer(lang string) *message.Printer {
	tag := language.Portuguese
	if norm, ok := Normalize(lang); ok {
		tag = language.Make(norm)
	}
	return message.NewPrinter(tag)
}

// FormatNumber renders n with the digit grouping of lang.
func FormatNumber(lang string, n int64) string {
	return printer(lang).Sprintf("%d", n)
}

// FormatCurrency renders a whole-real amount, e.g. "R$ 4.200.000" in pt.
func FormatCurrency(lang string, amount int64) string {
	return "R$ " + FormatNumber(lang, amount)
}

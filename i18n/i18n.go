// Package i18n holds the UI catalogs and language negotiation.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fallback is the catalog consulted for codes missing from the requested one.
const fallback = "en"

var defaultLang = fallback

// Default is the language used when nothing better can be negotiated.
func Default() string { return defaultLang }

// SetDefault changes the negotiated default. Unsupported languages are ignored.
func SetDefault(lang string) {
	if l := Normalize(lang); l != "" {
		defaultLang = l
	}
}

var supportedTags = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supportedTags)

var catalogs = map[string]map[string]string{
	"en": en,
	"ar": ar,
}

// Supported lists the language codes with a catalog.
func Supported() []string { return []string{"en", "ar"} }

// Normalize returns the supported base language for lang, or "" if none.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := catalogs[lang]; ok {
		return lang
	}
	return ""
}

// DetectLanguage picks the best supported language from an Accept-Language header.
func DetectLanguage(accept string) string {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return Default()
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	base, _ := supportedTags[idx].Base()
	return base.String()
}

// T translates code. Unknown languages use the English catalog; unknown codes
// are returned as is.
func T(lang, code string) string {
	if m, ok := catalogs[Normalize(lang)]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalogs[fallback][code]; ok {
		return s
	}
	return code
}

// Dir is the text direction of lang.
func Dir(lang string) string {
	if Normalize(lang) == "ar" {
		return "rtl"
	}
	return "ltr"
}

// Money formats an amount with two decimals using the grouping of lang.
func Money(lang string, v float64) string {
	tag := language.English
	if Normalize(lang) == "ar" {
		tag = language.Arabic
	}
	return message.NewPrinter(tag).Sprintf("%.2f", v)
}

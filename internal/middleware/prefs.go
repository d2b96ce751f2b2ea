package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/go-shop/i18n"
)

type ctxKey string

const (
	ctxLang  ctxKey = "pref_lang"
	ctxTheme ctxKey = "pref_theme"
)

const prefMaxAge = 86400 * 365

// Themes lists the accepted theme values. "system" follows the OS setting.
var Themes = []string{"system", "light", "dark"}

// Prefs extracts language/theme preferences (query > cookie > header) and stores them in context.
// Query-provided prefs are persisted in cookies.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil {
			lang = i18n.Normalize(c.Value)
		}
		if ql := i18n.Normalize(r.URL.Query().Get("lang")); ql != "" {
			lang = ql
			setPrefCookie(w, "lang", lang)
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		theme := "system"
		if c, err := r.Cookie("theme"); err == nil && ValidTheme(c.Value) {
			theme = c.Value
		}
		if qt := r.URL.Query().Get("theme"); ValidTheme(qt) {
			theme = qt
			setPrefCookie(w, "theme", theme)
		}
		ctx := context.WithValue(r.Context(), ctxLang, lang)
		ctx = context.WithValue(ctx, ctxTheme, theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidTheme reports whether theme is one of Themes.
func ValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// SavePrefs stores lang and theme cookies. Unsupported values are ignored.
func SavePrefs(w http.ResponseWriter, lang, theme string) {
	if l := i18n.Normalize(lang); l != "" {
		setPrefCookie(w, "lang", l)
	}
	if ValidTheme(theme) {
		setPrefCookie(w, "theme", theme)
	}
}

func setPrefCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: value, Path: "/", MaxAge: prefMaxAge, SameSite: http.SameSiteLaxMode})
}

// LangFrom returns language preference from context or fallback.
func LangFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxLang).(string); ok && v != "" {
		return v
	}
	return i18n.Default()
}

// ThemeFrom returns theme preference from context or fallback.
func ThemeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxTheme).(string); ok && v != "" {
		return v
	}
	return "system"
}

// FlashMessage is a one-shot notice shown on the next page render.
type FlashMessage struct {
	Kind string // "ok" or "error"
	Code string
}

// Flash queues a success notice identified by a translation code.
func Flash(w http.ResponseWriter, code string) { setFlash(w, "ok", code) }

// FlashError queues an error notice identified by a translation code.
func FlashError(w http.ResponseWriter, code string) { setFlash(w, "error", code) }

func setFlash(w http.ResponseWriter, kind, code string) {
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: url.QueryEscape(kind + ":" + code), Path: "/", HttpOnly: true})
}

// TakeFlash returns the queued notice, if any, and clears it.
func TakeFlash(w http.ResponseWriter, r *http.Request) (FlashMessage, bool) {
	c, err := r.Cookie("flash")
	if err != nil || c.Value == "" {
		return FlashMessage{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: "flash", Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return FlashMessage{}, false
	}
	kind, code, ok := strings.Cut(raw, ":")
	if !ok || code == "" {
		return FlashMessage{}, false
	}
	return FlashMessage{Kind: kind, Code: code}, true
}

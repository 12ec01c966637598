// Package translation wraps gotext lookups for user-facing bot strings.
package translation

import (
	"github.com/leonelquinteros/gotext"
)

// Configure points gotext at the locales directory for the given language.
func Configure(localesDir, lang string) {
	gotext.Configure(localesDir, lang, "default")
}

func GetLanguage() string {
	lang := gotext.GetLanguage()

	if lang == "und" || lang == "" {
		return "en"
	}

	return lang
}

// Translate returns the localized string for msgID, or msgID itself when no
// translation exists.
func Translate(msgID string, vars ...interface{}) string {
	return gotext.Get(msgID, vars...)
}

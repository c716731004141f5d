// language.go — обработчик переключения языка UI.
package handlers

import (
	"net/http"
	"time"

	"github.com/bigkaa/stroydoc/internal/ui/i18n"
)

// HandleSetLanguage обрабатывает POST /ui/set-language.
// Устанавливает cookie "lang" и перенаправляет на дашборд.
// Параметр lang: "ru" или "en" (из формы или query).
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 год
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})

	redirectHome(w, r)
}

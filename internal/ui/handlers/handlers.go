// Пакет handlers — HTTP-обработчики UI СтройДок.
// Каждое действие пользователя — отдельный запрос, выполняющий один
// переход состояния сессии; POST-запросы завершаются редиректом на "/".
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	uimiddleware "github.com/bigkaa/stroydoc/internal/ui/middleware"
)

// Handlers — обработчики UI для регистрации маршрутов.
type Handlers struct {
	Dashboard *DashboardHandler
	Draft     *DraftHandler
	Gallery   *GalleryHandler
	Export    *ExportHandler
}

// Routes регистрирует маршруты UI. Ожидает в контексте язык (i18n.Middleware)
// и идентификатор сессии (UISession).
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/", h.Dashboard.HandleDashboard)
	r.Post("/ui/nav/{section}", h.Dashboard.HandleNavigate)
	r.Post("/ui/notice/dismiss", h.Dashboard.HandleDismissNotice)
	r.Post("/ui/set-language", HandleSetLanguage)

	r.Get("/ui/acts/new", h.Draft.HandleOpen)
	r.Post("/ui/acts", h.Draft.HandleSubmit)
	r.Post("/ui/acts/cancel", h.Draft.HandleCancel)

	r.Get("/ui/gallery/{id}", h.Gallery.HandleSelect)
	r.Post("/ui/gallery/next", h.Gallery.HandleNext)
	r.Post("/ui/gallery/prev", h.Gallery.HandlePrev)
	r.Post("/ui/gallery/jump/{index}", h.Gallery.HandleJump)
	r.Post("/ui/gallery/close", h.Gallery.HandleClose)

	r.Get("/ui/export/{format}", h.Export.HandleExport)
}

// redirectHome завершает действие редиректом на дашборд.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// sessionID возвращает идентификатор UI-сессии запроса.
// Пустой идентификатор означает, что маршрут зарегистрирован без UISession.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := uimiddleware.SessionIDFromContext(r.Context())
	if id == "" {
		http.Error(w, "Сессия не найдена", http.StatusInternalServerError)
		return "", false
	}
	return id, true
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/stroydoc/internal/domain/appstate"
	"github.com/bigkaa/stroydoc/internal/domain/gallery"
	"github.com/bigkaa/stroydoc/internal/domain/model"
	"github.com/bigkaa/stroydoc/internal/service"
	"github.com/bigkaa/stroydoc/internal/ui/i18n"
	"github.com/bigkaa/stroydoc/internal/ui/pages"
	"github.com/bigkaa/stroydoc/internal/ui/session"
)

// DashboardHandler — обработчик страницы дашборда и навигации.
type DashboardHandler struct {
	registry *service.RegistryService
	sessions *session.Store
	user     pages.UserInfo
	logger   *slog.Logger
}

// NewDashboardHandler создаёт новый DashboardHandler.
func NewDashboardHandler(
	registry *service.RegistryService,
	sessions *session.Store,
	user pages.UserInfo,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		registry: registry,
		sessions: sessions,
		user:     user,
		logger:   logger.With(slog.String("component", "ui.dashboard")),
	}
}

// HandleDashboard обрабатывает GET / — отображает дашборд.
// Уведомление показывается один раз.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	acts, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения реестра", slog.String("error", err.Error()))
		http.Error(w, i18n.T(r.Context(), "error.internal"), http.StatusInternalServerError)
		return
	}

	var notice *appstate.Notice
	st := h.sessions.Update(id, func(s appstate.State) appstate.State {
		s = reconcileGallery(s, acts)
		notice, s = appstate.TakeNotice(s)
		return s
	})

	view := pages.NewDashboardView(pages.DashboardInput{
		Lang:     i18n.LangFromContext(r.Context()),
		User:     h.user,
		State:    st,
		Notice:   notice,
		Acts:     acts,
		Projects: h.registry.Projects(),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := pages.Dashboard(view).Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга дашборда",
			slog.String("error", err.Error()),
			slog.String("section", string(st.Section)),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// HandleNavigate обрабатывает POST /ui/nav/{section} — переключение раздела.
func (h *DashboardHandler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	section, ok := appstate.ParseSection(chi.URLParam(r, "section"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.sessions.Dispatch(id, appstate.Navigate{Section: section})
	redirectHome(w, r)
}

// HandleDismissNotice обрабатывает POST /ui/notice/dismiss.
func (h *DashboardHandler) HandleDismissNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	h.sessions.Dispatch(id, appstate.DismissNotice{})
	redirectHome(w, r)
}

// reconcileGallery закрывает галерею, если выбранный акт исчез из реестра.
func reconcileGallery(s appstate.State, acts []model.Act) appstate.State {
	if !s.Gallery.Open {
		return s
	}
	for _, a := range acts {
		if a.ID == s.Gallery.ActID {
			return s
		}
	}
	return appstate.Reduce(s, appstate.Gallery{Event: gallery.Close{}})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/stroydoc/internal/domain/appstate"
	"github.com/bigkaa/stroydoc/internal/domain/gallery"
	"github.com/bigkaa/stroydoc/internal/service"
	"github.com/bigkaa/stroydoc/internal/ui/session"
)

// GalleryHandler — обработчик галереи фотографий акта.
type GalleryHandler struct {
	registry *service.RegistryService
	sessions *session.Store
	logger   *slog.Logger
}

// NewGalleryHandler создаёт новый GalleryHandler.
func NewGalleryHandler(registry *service.RegistryService, sessions *session.Store, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		registry: registry,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "ui.gallery")),
	}
}

// HandleSelect обрабатывает GET /ui/gallery/{id} — открывает галерею акта
// с первой фотографии.
func (h *GalleryHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	act, err := h.registry.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Ошибка получения акта", slog.String("error", err.Error()))
		http.Error(w, "Ошибка получения акта", http.StatusInternalServerError)
		return
	}

	h.dispatch(id, gallery.Select{ActID: act.ID, Photos: act.PhotoURLs})
	redirectHome(w, r)
}

// HandleNext обрабатывает POST /ui/gallery/next.
func (h *GalleryHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, gallery.Next{})
}

// HandlePrev обрабатывает POST /ui/gallery/prev.
func (h *GalleryHandler) HandlePrev(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, gallery.Prev{})
}

// HandleClose обрабатывает POST /ui/gallery/close.
func (h *GalleryHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, gallery.Close{})
}

// HandleJump обрабатывает POST /ui/gallery/jump/{index}.
// Индекс вне диапазона состояние не меняет.
func (h *GalleryHandler) HandleJump(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Некорректный индекс фотографии", http.StatusBadRequest)
		return
	}
	h.step(w, r, gallery.Jump{Index: index})
}

func (h *GalleryHandler) step(w http.ResponseWriter, r *http.Request, ev gallery.Event) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	h.dispatch(id, ev)
	redirectHome(w, r)
}

func (h *GalleryHandler) dispatch(id string, ev gallery.Event) {
	st := h.sessions.Dispatch(id, appstate.Gallery{Event: ev})
	h.logger.Debug("Переход галереи",
		slog.String("act_id", st.Gallery.ActID),
		slog.Bool("open", st.Gallery.Open),
		slog.Int("index", st.Gallery.Index),
	)
}

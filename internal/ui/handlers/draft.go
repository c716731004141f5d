package handlers

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/bigkaa/stroydoc/internal/domain/appstate"
	"github.com/bigkaa/stroydoc/internal/domain/draft"
	"github.com/bigkaa/stroydoc/internal/service"
	"github.com/bigkaa/stroydoc/internal/ui/i18n"
	"github.com/bigkaa/stroydoc/internal/ui/session"
)

// multipartMemory — объём формы в памяти; остальное во временных файлах.
const multipartMemory = 1 << 20

// DraftHandler — обработчик диалога создания акта.
type DraftHandler struct {
	registry *service.RegistryService
	sessions *session.Store
	logger   *slog.Logger
}

// NewDraftHandler создаёт новый DraftHandler.
func NewDraftHandler(registry *service.RegistryService, sessions *session.Store, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		registry: registry,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "ui.draft")),
	}
}

// HandleOpen обрабатывает GET /ui/acts/new — открывает диалог.
func (h *DraftHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	h.sessions.Dispatch(id, appstate.OpenDialog{})
	redirectHome(w, r)
}

// HandleCancel обрабатывает POST /ui/acts/cancel — закрывает диалог
// и сбрасывает черновик.
func (h *DraftHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	h.sessions.Dispatch(id, appstate.CloseDialog{})
	redirectHome(w, r)
}

// HandleSubmit обрабатывает POST /ui/acts (multipart/form-data).
// Введённые значения сохраняются в черновике; при ошибках диалог остаётся
// открытым. Файлы учитываются только по имени и размеру.
func (h *DraftHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.logger.Warn("Некорректная форма создания акта", slog.String("error", err.Error()))
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("Ошибка удаления временных файлов формы", slog.String("error", err.Error()))
		}
	}()

	d := h.sessions.State(id).Draft.WithFields(draft.Fields{
		Number:      r.FormValue("number"),
		Date:        r.FormValue("date"),
		Project:     r.FormValue("project"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	})

	// Без нового выбора файлов сохраняется выбор из черновика
	problems := map[string]string{}
	if files := fileRefs(r.MultipartForm, "images"); len(files) > 0 {
		var rejected []draft.FileRef
		if d, rejected = d.WithFiles(draft.KindImage, files); len(rejected) > 0 {
			problems["images"] = draft.CodeInvalid
		}
	}
	if files := fileRefs(r.MultipartForm, "documents"); len(files) > 0 {
		var rejected []draft.FileRef
		if d, rejected = d.WithFiles(draft.KindDocument, files); len(rejected) > 0 {
			problems["documents"] = draft.CodeInvalid
		}
	}

	h.sessions.Dispatch(id, appstate.StageDraft{Draft: d})

	if len(problems) > 0 {
		if ve, ok := draft.AsValidationError(d.Validate(h.registry.Projects())); ok {
			for field, code := range ve.Fields {
				problems[field] = code
			}
		}
		h.sessions.Dispatch(id, appstate.RejectDraft{FieldErrors: problems})
		redirectHome(w, r)
		return
	}

	res, err := h.registry.Submit(r.Context(), d)
	if err != nil {
		if ve, ok := draft.AsValidationError(err); ok {
			h.sessions.Dispatch(id, appstate.RejectDraft{FieldErrors: ve.Fields})
			redirectHome(w, r)
			return
		}
		h.logger.Error("Ошибка создания акта", slog.String("error", err.Error()))
		h.sessions.Dispatch(id, appstate.Notify{Notice: appstate.Notice{
			Kind:    appstate.NoticeError,
			Message: i18n.T(r.Context(), "error.internal"),
		}})
		redirectHome(w, r)
		return
	}

	key := "draft.committed"
	if res.Stored {
		key = "draft.stored"
	}
	notice := appstate.Notice{Kind: appstate.NoticeInfo, Message: i18n.Tf(r.Context(), key, res.Act.Number)}
	h.sessions.Update(id, func(s appstate.State) appstate.State {
		s = appstate.Reduce(s, appstate.CloseDialog{})
		return appstate.Reduce(s, appstate.Notify{Notice: notice})
	})
	redirectHome(w, r)
}

// fileRefs возвращает дескрипторы выбранных файлов поля формы.
// Содержимое файлов не открывается.
func fileRefs(form *multipart.Form, field string) []draft.FileRef {
	headers := form.File[field]
	refs := make([]draft.FileRef, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" {
			continue
		}
		refs = append(refs, draft.FileRef{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}
	return refs
}

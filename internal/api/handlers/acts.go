// acts.go — обработчики реестра актов: список, карточка, создание из
// черновика, удаление, статистика и справочник статусов.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/stroydoc/internal/api/errors"
	"github.com/bigkaa/stroydoc/internal/domain/draft"
	"github.com/bigkaa/stroydoc/internal/domain/model"
	"github.com/bigkaa/stroydoc/internal/service"
)

// maxDraftBody — ограничение тела запроса создания акта.
const maxDraftBody = 1 << 20

// actResponse — акт в ответе API с отображением статуса.
type actResponse struct {
	ID           string       `json:"id"`
	Number       string       `json:"number"`
	Title        string       `json:"title"`
	Project      string       `json:"project"`
	Date         string       `json:"date"`
	Status       model.Status `json:"status"`
	Badge        model.Badge  `json:"badge"`
	Photos       int          `json:"photos"`
	Certificates int          `json:"certificates"`
	PhotoURLs    []string     `json:"photo_urls"`
	Description  string       `json:"description,omitempty"`
}

type actListResponse struct {
	Items []actResponse `json:"items"`
	Total int           `json:"total"`
}

// createActRequest — черновик акта в JSON.
type createActRequest struct {
	Fields    draft.Fields    `json:"fields"`
	Images    []draft.FileRef `json:"images"`
	Documents []draft.FileRef `json:"documents"`
}

type createActResponse struct {
	Act    actResponse `json:"act"`
	Stored bool        `json:"stored"`
}

type statusResponse struct {
	Status model.Status `json:"status"`
	model.Badge
}

func toActResponse(a *model.Act) actResponse {
	// Неизвестный статус в хранилище исключён CHECK-ограничением
	// и валидацией Insert; пустой бейдж допустим.
	badge, _ := model.Classify(a.Status)
	urls := a.PhotoURLs
	if urls == nil {
		urls = []string{}
	}
	return actResponse{
		ID:           a.ID,
		Number:       a.Number,
		Title:        a.Title,
		Project:      a.Project,
		Date:         a.Date.Format(model.DateLayout),
		Status:       a.Status,
		Badge:        badge,
		Photos:       a.Photos,
		Certificates: a.Certificates,
		PhotoURLs:    urls,
		Description:  a.Description,
	}
}

// ListActs — GET /api/v1/acts. Акты в порядке добавления.
func (h *APIHandler) ListActs(w http.ResponseWriter, r *http.Request) {
	acts, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения реестра", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка получения реестра")
		return
	}

	resp := actListResponse{Items: make([]actResponse, 0, len(acts)), Total: len(acts)}
	for i := range acts {
		resp.Items = append(resp.Items, toActResponse(&acts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAct — GET /api/v1/acts/{id}.
func (h *APIHandler) GetAct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	act, err := h.registry.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка получения акта")
		return
	}
	writeJSON(w, http.StatusOK, toActResponse(act))
}

// CreateAct — POST /api/v1/acts. Создаёт акт из черновика.
// Файлы передаются дескрипторами, содержимое не принимается.
func (h *APIHandler) CreateAct(w http.ResponseWriter, r *http.Request) {
	var req createActRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDraftBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса: "+err.Error())
		return
	}

	d := draft.Draft{}.WithFields(req.Fields)
	rejected := map[string]string{}
	var bad []draft.FileRef
	if d, bad = d.WithFiles(draft.KindImage, req.Images); len(bad) > 0 {
		rejected["images"] = draft.CodeInvalid
	}
	if d, bad = d.WithFiles(draft.KindDocument, req.Documents); len(bad) > 0 {
		rejected["documents"] = draft.CodeInvalid
	}
	if len(rejected) > 0 {
		apierrors.FieldErrors(w, "Недопустимый тип файла", rejected)
		return
	}

	res, err := h.registry.Submit(r.Context(), d)
	if err != nil {
		if ve, ok := draft.AsValidationError(err); ok {
			apierrors.FieldErrors(w, "Ошибка валидации черновика", ve.Fields)
			return
		}
		h.writeServiceError(w, err, "Ошибка создания акта")
		return
	}

	writeJSON(w, http.StatusCreated, createActResponse{
		Act:    toActResponse(res.Act),
		Stored: res.Stored,
	})
}

// DeleteAct — DELETE /api/v1/acts/{id}.
func (h *APIHandler) DeleteAct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.Remove(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "Ошибка удаления акта")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats — GET /api/v1/stats. Счётчики по статусам.
func (h *APIHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.registry.Stats(r.Context())
	if err != nil {
		h.logger.Error("Ошибка подсчёта статистики", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Ошибка подсчёта статистики")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListStatuses — GET /api/v1/statuses. Таблица классификатора статусов.
func (h *APIHandler) ListStatuses(w http.ResponseWriter, _ *http.Request) {
	out := make([]statusResponse, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		badge, err := model.Classify(s)
		if err != nil {
			continue
		}
		out = append(out, statusResponse{Status: s, Badge: badge})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeServiceError отображает ошибку сервисного слоя в HTTP-ответ.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrExportFailed):
		apierrors.ExportFailed(w, err.Error())
	default:
		h.logger.Error(fallback, slog.String("error", err.Error()))
		apierrors.InternalError(w, fallback)
	}
}

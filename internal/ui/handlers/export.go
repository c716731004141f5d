package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/stroydoc/internal/domain/appstate"
	"github.com/bigkaa/stroydoc/internal/service"
	"github.com/bigkaa/stroydoc/internal/ui/i18n"
	"github.com/bigkaa/stroydoc/internal/ui/session"
)

// ExportHandler — обработчик выгрузки реестра из UI.
type ExportHandler struct {
	exports  *service.ExportService
	sessions *session.Store
	logger   *slog.Logger
}

// NewExportHandler создаёт новый ExportHandler.
func NewExportHandler(exports *service.ExportService, sessions *session.Store, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exports:  exports,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "ui.export")),
	}
}

// HandleExport обрабатывает GET /ui/export/{format} — скачивание XLSX или PDF.
// Ошибка выгрузки показывается уведомлением на дашборде.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	format := chi.URLParam(r, "format")
	if format != service.FormatXLSX && format != service.FormatPDF {
		http.NotFound(w, r)
		return
	}

	artifact, err := h.exports.Export(r.Context(), i18n.LangFromContext(r.Context()), format)
	if err != nil {
		if !errors.Is(err, service.ErrExportFailed) {
			h.logger.Error("Ошибка выгрузки реестра", slog.String("error", err.Error()))
		}
		h.sessions.Dispatch(id, appstate.Notify{Notice: appstate.Notice{
			Kind:    appstate.NoticeError,
			Message: i18n.Tf(r.Context(), "export.failed", strings.ToUpper(format)),
		}})
		redirectHome(w, r)
		return
	}

	artifact.ServeHTTP(w, r)
}

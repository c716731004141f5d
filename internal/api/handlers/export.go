// export.go — выгрузка реестра через API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/stroydoc/internal/api/errors"
	"github.com/bigkaa/stroydoc/internal/service"
	"github.com/bigkaa/stroydoc/internal/ui/i18n"
)

// Export — GET /api/v1/export/{format}. format: xlsx или pdf.
// Язык подписей: параметр ?lang, иначе язык запроса.
func (h *APIHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format != service.FormatXLSX && format != service.FormatPDF {
		apierrors.ValidationError(w, "Неизвестный формат выгрузки: "+format)
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = i18n.LangFromContext(r.Context())
	}
	if !i18n.IsSupported(lang) {
		apierrors.ValidationError(w, "Неподдерживаемый язык: "+lang)
		return
	}

	artifact, err := h.exports.Export(r.Context(), lang, format)
	if err != nil {
		if errors.Is(err, service.ErrExportFailed) {
			apierrors.ExportFailed(w, err.Error())
			return
		}
		h.writeServiceError(w, err, "Ошибка выгрузки реестра")
		return
	}

	artifact.ServeHTTP(w, r)
}

// handler.go — основной обработчик JSON API СтройДок.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/stroydoc/internal/service"
)

// APIHandler — основной обработчик API.
type APIHandler struct {
	health   *HealthHandler
	registry *service.RegistryService
	exports  *service.ExportService
	logger   *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	registry *service.RegistryService,
	exports *service.ExportService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:   health,
		registry: registry,
		exports:  exports,
		logger:   logger.With(slog.String("component", "api_handler")),
	}
}

// Routes регистрирует маршруты /api/v1 в роутере r.
func (h *APIHandler) Routes(r chi.Router) {
	r.Get("/acts", h.ListActs)
	r.Post("/acts", h.CreateAct)
	r.Get("/acts/{id}", h.GetAct)
	r.Delete("/acts/{id}", h.DeleteAct)
	r.Get("/stats", h.GetStats)
	r.Get("/statuses", h.ListStatuses)
	r.Get("/export/{format}", h.Export)
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

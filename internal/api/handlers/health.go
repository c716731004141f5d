// health.go — обработчики health endpoints СтройДок.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (хранилище актов доступно)
// /metrics — Prometheus метрики
package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/stroydoc/internal/config"
)

// serviceName — имя сервиса в ответах health endpoints.
const serviceName = "stroydoc"

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	storeChecker ReadinessChecker
	storeKind    string
	promHandler  http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// storeKind — config.StoreMemory или config.StorePostgres.
// Для PostgreSQL storeChecker обязателен; nil даёт "fail".
func NewHealthHandler(storeKind string, storeChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		storeChecker: storeChecker,
		storeKind:    storeKind,
		promHandler:  promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		Storage healthCheckResult `json:"storage"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — readiness probe. Проверяет хранилище актов.
// Возвращает 200 (ok/degraded) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	switch {
	case h.storeKind == config.StoreMemory:
		resp.Checks.Storage = healthCheckResult{Status: "ok", Message: "in-memory"}
	case h.storeChecker != nil:
		st, msg := h.storeChecker.CheckReady()
		resp.Checks.Storage = healthCheckResult{Status: st, Message: msg}
	default:
		resp.Checks.Storage = healthCheckResult{Status: "fail", Message: "не инициализирован"}
	}

	resp.Status = overallStatus(resp.Checks.Storage.Status)

	code := http.StatusOK
	if resp.Status == "fail" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == "fail" {
			return "fail"
		}
		if s == "degraded" {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return "degraded"
	}
	return "ok"
}

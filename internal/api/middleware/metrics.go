// metrics.go — Prometheus HTTP метрики СтройДок.
// Регистрирует метрики: sd_http_requests_total, sd_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sd_http_requests_total",
			Help: "Общее количество HTTP-запросов к СтройДок",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sd_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к СтройДок в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет идентификаторы в пути на шаблоны маршрутов
// для ограничения кардинальности метрик.
// /api/v1/acts/1 → /api/v1/acts/{id}, /static/img/a.svg → /static/*
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/", "/health/live", "/health/ready", "/metrics",
		"/api/v1/acts",
		"/api/v1/stats",
		"/api/v1/statuses",
		"/api/v1/export/xlsx",
		"/api/v1/export/pdf",
		"/ui/acts",
		"/ui/acts/new",
		"/ui/acts/cancel",
		"/ui/gallery/next",
		"/ui/gallery/prev",
		"/ui/gallery/close",
		"/ui/export/xlsx",
		"/ui/export/pdf",
		"/ui/notice/dismiss",
		"/ui/set-language":
		return path
	}

	prefixes := []struct {
		prefix string
		result string
	}{
		{"/api/v1/acts/", "/api/v1/acts/{id}"},
		{"/ui/gallery/jump/", "/ui/gallery/jump/{index}"},
		{"/ui/gallery/", "/ui/gallery/{id}"},
		{"/ui/nav/", "/ui/nav/{section}"},
		{"/static/", "/static/*"},
	}

	for _, p := range prefixes {
		if strings.HasPrefix(path, p.prefix) && len(path) > len(p.prefix) {
			return p.result
		}
	}

	return "other"
}

// Пакет server — HTTP-сервер СтройДок с graceful shutdown.
// Без TLS — TLS termination на ingress.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/stroydoc/internal/api/handlers"
	"github.com/bigkaa/stroydoc/internal/api/middleware"
	"github.com/bigkaa/stroydoc/internal/config"
	uihandlers "github.com/bigkaa/stroydoc/internal/ui/handlers"
	"github.com/bigkaa/stroydoc/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/stroydoc/internal/ui/middleware"
	"github.com/bigkaa/stroydoc/internal/ui/static"
)

// UIComponents — компоненты UI для регистрации маршрутов.
type UIComponents struct {
	Handlers *uihandlers.Handlers
	Session  *uimiddleware.UISession
}

// Server — HTTP-сервер СтройДок.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
// ui может быть nil — тогда доступны только API и health endpoints.
func New(cfg *config.Config, logger *slog.Logger, api *handlers.APIHandler, ui *UIComponents) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(logger, api, ui),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты сервиса.
func NewRouter(logger *slog.Logger, api *handlers.APIHandler, ui *UIComponents) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health и metrics
	router.Get("/health/live", api.HealthLive)
	router.Get("/health/ready", api.HealthReady)
	router.Get("/metrics", api.GetMetrics)

	// JSON API; язык нужен для выгрузок без ?lang
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(i18n.Middleware())
		api.Routes(r)
	})

	if ui != nil {
		router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

		router.Group(func(r chi.Router) {
			r.Use(i18n.Middleware())
			r.Use(ui.Session.Middleware())
			ui.Handlers.Routes(r)
		})
	}

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}

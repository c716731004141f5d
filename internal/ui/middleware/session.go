// Пакет middleware — HTTP middleware UI СтройДок.
// session.go — привязка запроса к браузерной сессии (cookie-based).
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/stroydoc/internal/ui/session"
)

// contextKey — тип для ключей контекста UI (избегаем коллизий с API middleware).
type contextKey string

const (
	// ContextKeySessionID — идентификатор UI-сессии в контексте запроса.
	ContextKeySessionID contextKey = "ui_session_id"
)

// UISession — middleware, выдающий и проверяющий билет UI-сессии.
// Без билета или с повреждённым билетом создаётся новая сессия.
type UISession struct {
	manager *session.Manager
	logger  *slog.Logger
}

// NewUISession создаёт middleware UI-сессии.
func NewUISession(manager *session.Manager, logger *slog.Logger) *UISession {
	return &UISession{
		manager: manager,
		logger:  logger.With(slog.String("component", "ui_session_middleware")),
	}
}

// Middleware возвращает HTTP middleware. Применяется к маршрутам / и /ui/*.
func (us *UISession) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ticket, err := us.manager.FromRequest(r)
			if err != nil {
				us.logger.Debug("Повреждённый билет UI-сессии, выдаётся новый",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				ticket = nil
			}

			if ticket == nil {
				ticket = &session.Ticket{
					ID:       uuid.New().String(),
					IssuedAt: time.Now().Unix(),
				}
				if err := us.manager.SetCookie(w, ticket); err != nil {
					us.logger.Error("Ошибка установки cookie UI-сессии",
						slog.String("error", err.Error()),
					)
					http.Error(w, "Ошибка создания сессии", http.StatusInternalServerError)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionID, ticket.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext извлекает идентификатор UI-сессии из контекста.
// Возвращает "" если запрос не прошёл через UISession.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeySessionID).(string)
	return id
}

// dephealth.go — мониторинг хранилища актов через topologymetrics SDK.
//
// В режиме SD_STORE=postgres СтройДок зависит только от PostgreSQL.
// Проверка идёт через *sql.DB поверх существующего pgxpool
// (connection pool mode), поэтому исчерпание пула видно в метриках.
//
// Метрики публикуются на /metrics:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// dependencyPostgres — имя зависимости в метриках.
const dependencyPostgres = "postgresql"

// DephealthService — периодическая проверка PostgreSQL хранилища актов.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга с глобальным Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа приложения ("stroydoc")
//   - group — группа в метриках (SD_DEPHEALTH_GROUP)
//   - db — *sql.DB из pgxpool через stdlib.OpenDBFromPool()
//   - pgURL — URL PostgreSQL без учётных данных, только для меток
//   - checkInterval — интервал проверки (SD_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID, group string,
	db *sql.DB,
	pgURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с отдельным registerer (тесты).
func NewDephealthServiceWithRegisterer(
	serviceID, group string,
	db *sql.DB,
	pgURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	serviceID, group string,
	db *sql.DB,
	pgURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// pgcheck напрямую, без contrib/sqldb и его зависимости на MySQL
		dephealth.AddDependency(dependencyPostgres, dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(pgURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку PostgreSQL.
func (ds *DephealthService) Start(ctx context.Context) error {
	if err := ds.dh.Start(ctx); err != nil {
		return err
	}
	ds.logger.Info("Мониторинг хранилища актов запущен")
	return nil
}

// Stop останавливает проверки.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг хранилища актов остановлен")
}

// Health возвращает состояние зависимостей: имя → true, если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

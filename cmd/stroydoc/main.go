// Точка входа СтройДок — сервис учёта актов на скрытые работы.
// Загружает конфигурацию, подготавливает хранилище актов (память или
// PostgreSQL с миграциями), наполняет реестр начальными актами, создаёт
// сервисный слой, API и UI handlers и запускает HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/stroydoc/internal/api/handlers"
	"github.com/bigkaa/stroydoc/internal/config"
	"github.com/bigkaa/stroydoc/internal/database"
	"github.com/bigkaa/stroydoc/internal/domain/model"
	"github.com/bigkaa/stroydoc/internal/export"
	"github.com/bigkaa/stroydoc/internal/repository"
	"github.com/bigkaa/stroydoc/internal/server"
	"github.com/bigkaa/stroydoc/internal/service"
	uihandlers "github.com/bigkaa/stroydoc/internal/ui/handlers"
	"github.com/bigkaa/stroydoc/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/stroydoc/internal/ui/middleware"
	"github.com/bigkaa/stroydoc/internal/ui/pages"
	"github.com/bigkaa/stroydoc/internal/ui/session"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("СтройДок запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("store", cfg.Store),
	)

	ctx := context.Background()

	// 3. Хранилище актов
	var (
		repo         repository.ActRepository
		storeChecker handlers.ReadinessChecker
		pgDB         *sql.DB
	)
	switch cfg.Store {
	case config.StorePostgres:
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		// Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
		pgDB = stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		// Начальные акты добавляются в одной транзакции
		var seeded int
		err = repository.NewTxRunner(pool).RunInTx(ctx, func(tx pgx.Tx) error {
			var seedErr error
			seeded, seedErr = repository.Seed(ctx, repository.NewPostgresActRepository(tx), repository.SeedActs())
			return seedErr
		})
		if err != nil {
			logger.Error("Ошибка начального наполнения реестра", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Реестр актов готов", slog.Int("seeded", seeded))

		repo = repository.NewPostgresActRepository(pool)
		storeChecker = database.NewReadinessChecker(pool)

	default:
		repo = repository.NewMemoryActRepository()
		seeded, err := repository.Seed(ctx, repo, repository.SeedActs())
		if err != nil {
			logger.Error("Ошибка начального наполнения реестра", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Реестр актов в памяти", slog.Int("seeded", seeded))
	}

	// 4. i18n каталоги (UI и подписи выгрузок)
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки i18n каталогов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Кодировщик PDF; без шрифта кириллица в PDF недоступна
	pdfEncoder, fontErr := export.NewPDFEncoder(cfg.PDFFontPath)
	if fontErr != nil {
		logger.Warn("Шрифт PDF недоступен, используется встроенный Helvetica без кириллицы",
			slog.String("path", cfg.PDFFontPath),
			slog.String("error", fontErr.Error()),
		)
	}

	// 6. Services
	registrySvc := service.NewRegistryService(repo, model.DefaultProjects, cfg.DraftWriteBack, logger)
	exportSvc := service.NewExportService(
		registrySvc, pdfEncoder, bundle,
		cfg.RegistryName, cfg.RegistrySheet,
		logger,
	)
	if !cfg.DraftWriteBack {
		logger.Info("SD_DRAFT_WRITE_BACK=false, акты из формы не записываются в реестр")
	}

	// 6.1 topologymetrics — мониторинг PostgreSQL (только SD_STORE=postgres)
	var dephealthSvc *service.DephealthService
	if pgDB != nil {
		var dephealthErr error
		dephealthSvc, dephealthErr = service.NewDephealthService(
			"stroydoc",
			cfg.DephealthGroup,
			pgDB,
			cfg.DatabaseURL(),
			cfg.DephealthCheckInterval,
			logger,
		)
		if dephealthErr != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", dephealthErr.Error()),
			)
		} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
			dephealthSvc = nil
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 7. API handler
	healthHandler := handlers.NewHealthHandler(cfg.Store, storeChecker)
	apiHandler := handlers.NewAPIHandler(healthHandler, registrySvc, exportSvc, logger)

	// 8. UI: сессии, состояние интерфейса, обработчики
	sessionMgr, err := session.NewManager(cfg.UISessionSecret, cfg.UISecureCookie, cfg.UISessionTTL)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.UISessionSecret == "" {
		logger.Warn("SD_UI_SESSION_SECRET не задан, UI-сессии не сохраняются между рестартами")
	}
	sessions := session.NewStore(cfg.UISessionCacheSize, cfg.UISessionTTL)
	user := pages.UserInfo{Name: cfg.UserName, Position: cfg.UserPosition}

	uiComponents := &server.UIComponents{
		Handlers: &uihandlers.Handlers{
			Dashboard: uihandlers.NewDashboardHandler(registrySvc, sessions, user, logger),
			Draft:     uihandlers.NewDraftHandler(registrySvc, sessions, logger),
			Gallery:   uihandlers.NewGalleryHandler(registrySvc, sessions, logger),
			Export:    uihandlers.NewExportHandler(exportSvc, sessions, logger),
		},
		Session: uimiddleware.NewUISession(sessionMgr, logger),
	}
	logger.Info("UI инициализирован",
		slog.Int("session_cache_size", cfg.UISessionCacheSize),
		slog.String("session_ttl", cfg.UISessionTTL.String()),
	)

	// 9. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, uiComponents)
	runErr := srv.Run()

	// 10. Остановка фоновых проверок
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	if runErr != nil {
		logger.Error("Ошибка сервера", slog.String("error", runErr.Error()))
		os.Exit(1)
	}

	logger.Info("СтройДок остановлен")
}

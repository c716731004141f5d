package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/stroydoc/internal/config"
	"github.com/bigkaa/stroydoc/internal/database"
	"github.com/bigkaa/stroydoc/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestDB запускает PostgreSQL контейнер, применяет миграции.
// Возвращает pgxpool.Pool; контейнер останавливается в t.Cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("stroydoc_test"),
		postgres.WithUsername("stroydoc"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	// Настраиваем env для config.Load()
	t.Setenv("SD_STORE", config.StorePostgres)
	t.Setenv("SD_DB_HOST", host)
	t.Setenv("SD_DB_PORT", port.Port())
	t.Setenv("SD_DB_NAME", "stroydoc_test")
	t.Setenv("SD_DB_USER", "stroydoc")
	t.Setenv("SD_DB_PASSWORD", "test-password")
	t.Setenv("SD_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Применяем миграции
	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	// Подключаемся
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

// TestActPostgres_SeedAndList проверяет начальное заполнение в транзакции
// и порядок выдачи.
func TestActPostgres_SeedAndList(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	var added int
	err := NewTxRunner(pool).RunInTx(ctx, func(tx pgx.Tx) error {
		var err error
		added, err = Seed(ctx, NewPostgresActRepository(tx), SeedActs())
		return err
	})
	if err != nil {
		t.Fatalf("Seed() ошибка: %v", err)
	}
	if added != 3 {
		t.Fatalf("Seed() добавил %d актов, ожидается 3", added)
	}

	repo := NewPostgresActRepository(pool)
	acts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(acts) != 3 {
		t.Fatalf("List() вернул %d актов, ожидается 3", len(acts))
	}
	for i, want := range SeedActs() {
		got := acts[i]
		if got.ID != want.ID || got.Number != want.Number || got.Status != want.Status {
			t.Errorf("acts[%d] = %s/%s/%s, ожидается %s/%s/%s",
				i, got.ID, got.Number, got.Status, want.ID, want.Number, want.Status)
		}
		if !got.Date.Equal(want.Date) {
			t.Errorf("acts[%d].Date = %v, ожидается %v", i, got.Date, want.Date)
		}
		if len(got.PhotoURLs) != len(want.PhotoURLs) {
			t.Errorf("acts[%d]: %d адресов фото, ожидается %d", i, len(got.PhotoURLs), len(want.PhotoURLs))
		}
	}

	// Повторное заполнение ничего не добавляет
	again, err := Seed(ctx, repo, SeedActs())
	if err != nil || again != 0 {
		t.Errorf("повторный Seed() = %d, %v", again, err)
	}
}

// TestActPostgres_InsertGetRemove проверяет CRUD и ошибки репозитория.
func TestActPostgres_InsertGetRemove(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresActRepository(pool)

	act := &model.Act{
		ID:          uuid.New().String(),
		Number:      "АСР-010",
		Title:       "Акт на скрытые работы по обратной засыпке",
		Project:     `Бизнес-центр "Альфа"`,
		Date:        model.MustDate("2024-12-01"),
		Status:      model.StatusPending,
		Photos:      2,
		Description: "Засыпка пазух котлована",
	}
	if err := repo.Insert(ctx, act); err != nil {
		t.Fatalf("Insert() ошибка: %v", err)
	}

	got, err := repo.GetByID(ctx, act.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.Title != act.Title || got.Description != act.Description || got.Photos != 2 {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.PhotoURLs != nil {
		t.Errorf("PhotoURLs = %v, ожидается nil", got.PhotoURLs)
	}

	if err := repo.Insert(ctx, act); !errors.Is(err, ErrConflict) {
		t.Errorf("повторный Insert() ожидается ErrConflict, получено %v", err)
	}

	if err := repo.Remove(ctx, act.ID); err != nil {
		t.Fatalf("Remove() ошибка: %v", err)
	}
	if _, err := repo.GetByID(ctx, act.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() после Remove ожидается ErrNotFound, получено %v", err)
	}
	if err := repo.Remove(ctx, act.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Remove() ожидается ErrNotFound, получено %v", err)
	}
}

// TestTxRunner_Rollback проверяет откат транзакции при ошибке.
func TestTxRunner_Rollback(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	errBoom := errors.New("сбой")
	err := NewTxRunner(pool).RunInTx(ctx, func(tx pgx.Tx) error {
		act := SeedActs()[0]
		if err := NewPostgresActRepository(tx).Insert(ctx, &act); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("RunInTx() = %v, ожидается errBoom", err)
	}

	n, err := NewPostgresActRepository(pool).Count(ctx)
	if err != nil {
		t.Fatalf("Count() ошибка: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d после отката, ожидается 0", n)
	}
}

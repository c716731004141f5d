// Пакет repository — хранилище актов.
// Реализации: in-memory (по умолчанию, состояние пересоздаётся при старте)
// и PostgreSQL (чистый SQL через pgx, без ORM).
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/stroydoc/internal/domain/model"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — запись уже существует")
)

// ActRepository — хранилище актов. Единственный владелец коллекции;
// наружу отдаются копии записей.
type ActRepository interface {
	// List возвращает все акты в порядке добавления.
	List(ctx context.Context) ([]model.Act, error)
	// GetByID возвращает акт по ID.
	GetByID(ctx context.Context, id string) (*model.Act, error)
	// Insert добавляет акт в конец коллекции.
	Insert(ctx context.Context, act *model.Act) error
	// Remove удаляет акт по ID.
	Remove(ctx context.Context, id string) error
	// Count возвращает количество актов.
	Count(ctx context.Context) (int, error)
}

// Seed добавляет начальные акты, если хранилище пусто.
// Возвращает количество добавленных записей.
func Seed(ctx context.Context, repo ActRepository, acts []model.Act) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта актов: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for i := range acts {
		act := acts[i].Clone()
		if err := repo.Insert(ctx, &act); err != nil {
			return i, fmt.Errorf("ошибка добавления акта %s: %w", act.Number, err)
		}
	}
	return len(acts), nil
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner позволяет выполнять операции в транзакции.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner создаёт TxRunner для управления транзакциями.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInTx выполняет fn внутри транзакции.
// При ошибке fn — транзакция откатывается.
// При успехе — коммитится.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // откат после коммита — no-op

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

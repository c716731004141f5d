package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/stroydoc/internal/domain/model"
)

// actPostgresRepo — реализация ActRepository поверх таблицы acts.
// Порядок добавления задаётся столбцом seq (bigserial).
type actPostgresRepo struct {
	db DBTX
}

// NewPostgresActRepository создаёт репозиторий актов PostgreSQL.
func NewPostgresActRepository(db DBTX) ActRepository {
	return &actPostgresRepo{db: db}
}

const actColumns = `id, number, title, project, act_date, status,
			photos, certificates, photo_urls, description`

func (r *actPostgresRepo) List(ctx context.Context) ([]model.Act, error) {
	query := `
		SELECT ` + actColumns + `
		FROM acts
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка актов: %w", err)
	}
	defer rows.Close()

	result := []model.Act{}
	for rows.Next() {
		a, err := scanAct(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования акта: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *actPostgresRepo) GetByID(ctx context.Context, id string) (*model.Act, error) {
	query := `
		SELECT ` + actColumns + `
		FROM acts
		WHERE id = $1`

	a, err := scanAct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения акта: %w", err)
	}
	return a, nil
}

func (r *actPostgresRepo) Insert(ctx context.Context, act *model.Act) error {
	if act.ID == "" {
		return fmt.Errorf("ошибка добавления акта: пустой ID")
	}
	if err := act.Validate(); err != nil {
		return fmt.Errorf("ошибка добавления акта: %w", err)
	}

	query := `
		INSERT INTO acts (` + actColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var description *string
	if act.Description != "" {
		description = &act.Description
	}
	photoURLs := act.PhotoURLs
	if photoURLs == nil {
		photoURLs = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		act.ID, act.Number, act.Title, act.Project, act.Date, string(act.Status),
		act.Photos, act.Certificates, photoURLs, description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: акт с ID %s уже существует", ErrConflict, act.ID)
		}
		return fmt.Errorf("ошибка добавления акта: %w", err)
	}
	return nil
}

func (r *actPostgresRepo) Remove(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM acts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления акта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *actPostgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM acts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта актов: %w", err)
	}
	return n, nil
}

// scanAct читает одну строку acts в model.Act.
func scanAct(row pgx.Row) (*model.Act, error) {
	var (
		a           model.Act
		status      string
		description *string
		photoURLs   []string
	)
	if err := row.Scan(
		&a.ID, &a.Number, &a.Title, &a.Project, &a.Date, &status,
		&a.Photos, &a.Certificates, &photoURLs, &description,
	); err != nil {
		return nil, err
	}

	a.Status = model.Status(status)
	a.Date = a.Date.UTC()
	if len(photoURLs) > 0 {
		a.PhotoURLs = photoURLs
	}
	if description != nil {
		a.Description = *description
	}
	return &a, nil
}

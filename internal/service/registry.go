// registry.go — сервис реестра актов: чтение, статистика, изменения
// и создание акта из черновика формы.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bigkaa/stroydoc/internal/domain/draft"
	"github.com/bigkaa/stroydoc/internal/domain/model"
	"github.com/bigkaa/stroydoc/internal/repository"
)

// RegistryService — сервис реестра актов.
type RegistryService struct {
	repo      repository.ActRepository
	projects  []model.Project
	writeBack bool
	newID     func() string
	logger    *slog.Logger
}

// NewRegistryService создаёт сервис реестра.
// writeBack — записывать ли акт, созданный из черновика, в хранилище.
func NewRegistryService(
	repo repository.ActRepository,
	projects []model.Project,
	writeBack bool,
	logger *slog.Logger,
) *RegistryService {
	return &RegistryService{
		repo:      repo,
		projects:  projects,
		writeBack: writeBack,
		newID:     uuid.NewString,
		logger:    logger.With(slog.String("component", "registry_service")),
	}
}

// Projects возвращает объекты строительства для выбора в форме.
func (s *RegistryService) Projects() []model.Project {
	out := make([]model.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// WriteBack сообщает, записываются ли созданные акты в хранилище.
func (s *RegistryService) WriteBack() bool {
	return s.writeBack
}

// List возвращает все акты в порядке добавления.
func (s *RegistryService) List(ctx context.Context) ([]model.Act, error) {
	acts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение реестра: %w", err)
	}
	return acts, nil
}

// Get возвращает акт по ID.
func (s *RegistryService) Get(ctx context.Context, id string) (*model.Act, error) {
	act, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("получение акта: %w", err)
	}
	return act, nil
}

// Stats возвращает счётчики реестра по статусам.
func (s *RegistryService) Stats(ctx context.Context) (model.Stats, error) {
	acts, err := s.List(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return model.ComputeStats(acts), nil
}

// Insert добавляет акт в конец реестра.
func (s *RegistryService) Insert(ctx context.Context, act *model.Act) error {
	if act.ID == "" {
		act.ID = s.newID()
	}
	if err := act.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err) //nolint:errorlint // намеренный двойной wrap
	}

	if err := s.repo.Insert(ctx, act); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("%w: %s", ErrConflict, act.ID)
		}
		return fmt.Errorf("добавление акта: %w", err)
	}

	s.logger.Info("Акт добавлен в реестр",
		slog.String("id", act.ID),
		slog.String("number", act.Number),
	)
	return nil
}

// Remove удаляет акт из реестра.
func (s *RegistryService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("удаление акта: %w", err)
	}

	s.logger.Info("Акт удалён из реестра", slog.String("id", id))
	return nil
}

// SubmitResult — результат отправки формы создания акта.
type SubmitResult struct {
	// Act — акт, построенный из черновика
	Act *model.Act
	// Stored — акт записан в хранилище
	Stored bool
}

// Submit создаёт акт из черновика. Ошибки полей возвращаются как
// ErrValidation с *draft.ValidationError в цепочке. Без write-back
// акт не попадает в хранилище.
func (s *RegistryService) Submit(ctx context.Context, d draft.Draft) (*SubmitResult, error) {
	act, err := draft.Commit(d, s.projects, s.newID)
	if err != nil {
		if _, ok := draft.AsValidationError(err); ok {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err) //nolint:errorlint // намеренный двойной wrap
		}
		return nil, fmt.Errorf("создание акта: %w", err)
	}

	if !s.writeBack {
		s.logger.Info("Акт сформирован без записи в реестр",
			slog.String("number", act.Number),
			slog.Int("photos", act.Photos),
			slog.Int("certificates", act.Certificates),
		)
		return &SubmitResult{Act: act}, nil
	}

	if err := s.Insert(ctx, act); err != nil {
		return nil, err
	}
	return &SubmitResult{Act: act, Stored: true}, nil
}

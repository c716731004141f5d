package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/bigkaa/stroydoc/internal/domain/model"
)

// memoryActRepo — in-memory реализация ActRepository.
// Порядок добавления сохраняется в срезе, индекс по ID — в map.
type memoryActRepo struct {
	mu    sync.RWMutex
	acts  []model.Act
	index map[string]int
}

// NewMemoryActRepository создаёт пустое in-memory хранилище.
func NewMemoryActRepository() ActRepository {
	return &memoryActRepo{index: make(map[string]int)}
}

func (r *memoryActRepo) List(_ context.Context) ([]model.Act, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Act, len(r.acts))
	for i, a := range r.acts {
		out[i] = a.Clone()
	}
	return out, nil
}

func (r *memoryActRepo) GetByID(_ context.Context, id string) (*model.Act, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	act := r.acts[i].Clone()
	return &act, nil
}

func (r *memoryActRepo) Insert(_ context.Context, act *model.Act) error {
	if act.ID == "" {
		return fmt.Errorf("ошибка добавления акта: пустой ID")
	}
	if err := act.Validate(); err != nil {
		return fmt.Errorf("ошибка добавления акта: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[act.ID]; exists {
		return fmt.Errorf("%w: акт с ID %s уже существует", ErrConflict, act.ID)
	}
	r.index[act.ID] = len(r.acts)
	r.acts = append(r.acts, act.Clone())
	return nil
}

func (r *memoryActRepo) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return ErrNotFound
	}

	r.acts = append(r.acts[:i], r.acts[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.acts); j++ {
		r.index[r.acts[j].ID] = j
	}
	return nil
}

func (r *memoryActRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.acts), nil
}

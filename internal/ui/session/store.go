package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/stroydoc/internal/domain/appstate"
)

// Prometheus-метрики сессий.
var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sd_ui_sessions_active",
		Help: "Количество UI-сессий в кэше состояний.",
	})
	sessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sd_ui_sessions_created_total",
		Help: "Общее количество созданных UI-сессий.",
	})
)

// entry — состояние одной сессии. Переходы одной сессии сериализуются.
type entry struct {
	mu    sync.Mutex
	state appstate.State
}

// Store — состояния UI-сессий в LRU-кэше с TTL.
// TTL отсчитывается от последнего изменения состояния.
type Store struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *entry]
}

// NewStore создаёт хранилище на size сессий с временем жизни ttl.
func NewStore(size int, ttl time.Duration) *Store {
	onEvict := func(_ string, _ *entry) {
		sessionsActive.Dec()
	}
	return &Store{cache: expirable.NewLRU[string, *entry](size, onEvict, ttl)}
}

// lookup возвращает запись сессии, создавая её при отсутствии.
func (s *Store) lookup(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache.Get(id); ok {
		return e
	}
	e := &entry{state: appstate.Initial()}
	s.cache.Add(id, e)
	sessionsActive.Inc()
	sessionsCreatedTotal.Inc()
	return e
}

// State возвращает текущее состояние сессии (начальное для новой).
func (s *Store) State(id string) appstate.State {
	e := s.lookup(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Update применяет fn к состоянию сессии и возвращает новое состояние.
func (s *Store) Update(id string, fn func(appstate.State) appstate.State) appstate.State {
	e := s.lookup(id)
	e.mu.Lock()
	e.state = fn(e.state)
	st := e.state
	e.mu.Unlock()

	// Продлеваем TTL записи; запись могла быть вытеснена во время fn
	s.mu.Lock()
	if !s.cache.Contains(id) {
		sessionsActive.Inc()
	}
	s.cache.Add(id, e)
	s.mu.Unlock()
	return st
}

// Dispatch применяет событие к состоянию сессии через appstate.Reduce.
func (s *Store) Dispatch(id string, ev appstate.Event) appstate.State {
	return s.Update(id, func(st appstate.State) appstate.State {
		return appstate.Reduce(st, ev)
	})
}

// Len возвращает количество сессий в кэше.
func (s *Store) Len() int {
	return s.cache.Len()
}

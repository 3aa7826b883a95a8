package state

import (
	"sync"

	"golang.org/x/exp/slog"
)

// Store хранит корневое состояние и применяет к нему действия.
// Передается по ссылке всем потребителям, глобального экземпляра нет.
type Store struct {
	mu          sync.RWMutex
	state       State
	log         *slog.Logger
	subscribers map[int]func(State)
	nextID      int
}

func NewStore(initial State, log *slog.Logger) *Store {
	return &Store{
		state:       initial.Clone(),
		log:         log.With("component", "store"),
		subscribers: make(map[int]func(State)),
	}
}

// Dispatch применяет действие и уведомляет подписчиков копией нового состояния
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.Clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	s.log.Debug("Действие применено", "action", a.actionName())

	for _, fn := range subs {
		fn(snapshot)
	}
}

// State возвращает копию текущего состояния
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe регистрирует слушателя изменений; возвращает функцию отписки
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

const defaultProbeInterval = 10 * time.Second

// Prober проверяет доступность сервера
type Prober interface {
	HealthCheck(ctx context.Context) error
}

// ConnectivityObserver опрашивает сервер и сообщает подписчикам только о смене
// состояния. Начальное состояние - нет связи.
type ConnectivityObserver struct {
	prober   Prober
	interval time.Duration
	log      *slog.Logger

	mu          sync.Mutex
	connected   bool
	subscribers map[int]func(bool)
	nextID      int
}

func NewConnectivityObserver(prober Prober, interval time.Duration, log *slog.Logger) *ConnectivityObserver {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &ConnectivityObserver{
		prober:      prober,
		interval:    interval,
		log:         log.With("component", "connectivity"),
		subscribers: make(map[int]func(bool)),
	}
}

// Subscribe регистрирует подписчика; возвращает функцию отписки
func (o *ConnectivityObserver) Subscribe(fn func(isConnected bool)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subscribers[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subscribers, id)
		o.mu.Unlock()
	}
}

// Connected возвращает последнее известное состояние
func (o *ConnectivityObserver) Connected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.connected
}

// Check выполняет одну проверку и уведомляет подписчиков при смене состояния
func (o *ConnectivityObserver) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	err := o.prober.HealthCheck(probeCtx)
	now := err == nil

	o.mu.Lock()
	changed := now != o.connected
	o.connected = now
	var subs []func(bool)
	if changed {
		for id := 0; id < o.nextID; id++ {
			if fn, ok := o.subscribers[id]; ok {
				subs = append(subs, fn)
			}
		}
	}
	o.mu.Unlock()

	if !changed {
		return now
	}

	if now {
		o.log.Info("Связь с сервером восстановлена")
	} else {
		o.log.Info("Связь с сервером потеряна", "error", err)
	}

	for _, fn := range subs {
		fn(now)
	}

	return now
}

// Run опрашивает сервер до отмены контекста
func (o *ConnectivityObserver) Run(ctx context.Context) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		o.Check(ctx)

		select {
		case <-ctx.Done():
			o.log.Info("Наблюдение за связью остановлено")
			return
		case <-ticker.C:
		}
	}
}

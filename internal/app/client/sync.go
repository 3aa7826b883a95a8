package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"lecturapozos/internal/app/client/state"
)

var ErrDrainInProgress = errors.New("синхронизация уже выполняется")

// LecturaAPI - часть удаленного API, нужная для разбора очереди
type LecturaAPI interface {
	CreateLectura(ctx context.Context, payload Payload) (int, error)
	Upload(ctx context.Context, ref string, refID int, field, path string) ([]UploadedFile, error)
}

// SyncConfig конфигурация синхронизации
type SyncConfig struct {
	// FollowUpOnMissedSignal - запустить еще один проход, если сигнал пришел во время разбора
	FollowUpOnMissedSignal bool
	// Interval - периодический повтор, пока связь есть; 0 отключает
	Interval time.Duration
}

// ConnectivityState - последнее известное состояние связи
type ConnectivityState interface {
	Connected() bool
}

// SyncStats статистика синхронизации
type SyncStats struct {
	TotalDrains        int       `json:"total_drains"`
	TotalPasses        int       `json:"total_passes"`
	TotalAccepted      int       `json:"total_accepted"`
	TotalDuplicates    int       `json:"total_duplicates"`
	TotalStopped       int       `json:"total_stopped"`
	TotalFailedUploads int       `json:"total_failed_uploads"`
	LastSuccessful     time.Time `json:"last_successful"`
	LastFailed         time.Time `json:"last_failed"`
}

// DrainResult результат разбора очереди
type DrainResult struct {
	Passes        int           `json:"passes"`
	Accepted      int           `json:"accepted"`
	Duplicates    int           `json:"duplicates"`
	FailedUploads int           `json:"failed_uploads"`
	Stopped       bool          `json:"stopped"`
	Remaining     int           `json:"remaining"`
	Items         []ItemResult  `json:"items"`
	Duration      time.Duration `json:"duration"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
}

// SyncService разбирает локальную очередь на сервер, по одной записи,
// строго в порядке постановки.
type SyncService struct {
	queue    Queue
	api      LecturaAPI
	store    *state.Store
	notifier Notifier
	log      *slog.Logger
	config   SyncConfig
	now      func() time.Time

	mu         sync.Mutex
	isDraining bool
	followUp   bool
	stats      SyncStats
	trigger    chan struct{}
	conn       ConnectivityState
}

// NewSyncService создает новый сервис синхронизации
func NewSyncService(queue Queue, api LecturaAPI, store *state.Store, notifier Notifier, cfg SyncConfig, log *slog.Logger) *SyncService {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &SyncService{
		queue:    queue,
		api:      api,
		store:    store,
		notifier: notifier,
		log:      log.With("component", "sync"),
		config:   cfg,
		now:      time.Now,
		trigger:  make(chan struct{}, 1),
	}
}

// Drain выполняет проход по очереди. Одновременно выполняется только один разбор:
// параллельный вызов получает ErrDrainInProgress.
func (s *SyncService) Drain(ctx context.Context) (*DrainResult, error) {
	s.mu.Lock()
	if s.isDraining {
		if s.config.FollowUpOnMissedSignal {
			s.followUp = true
		}
		s.mu.Unlock()
		return nil, ErrDrainInProgress
	}
	s.isDraining = true
	s.followUp = false
	s.mu.Unlock()

	result := &DrainResult{
		StartTime: s.now(),
		Items:     []ItemResult{},
	}

	for {
		s.drainPass(ctx, result)

		s.mu.Lock()
		if !s.followUp || ctx.Err() != nil {
			s.isDraining = false
			s.followUp = false
			s.mu.Unlock()
			break
		}
		s.followUp = false
		s.mu.Unlock()

		s.log.Debug("Повторный проход после сигнала во время синхронизации")
	}

	if n, err := s.queue.Len(ctx); err == nil {
		result.Remaining = n
	}
	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	s.updateStats(result)

	if result.Accepted > 0 || result.Duplicates > 0 || result.Stopped {
		s.log.Info("Синхронизация завершена",
			"duration", result.Duration,
			"accepted", result.Accepted,
			"duplicates", result.Duplicates,
			"failed_uploads", result.FailedUploads,
			"stopped", result.Stopped,
			"remaining", result.Remaining,
		)
	}

	return result, nil
}

// drainPass обрабатывает записи по порядку до первой временной ошибки
func (s *SyncService) drainPass(ctx context.Context, result *DrainResult) {
	result.Passes++

	items, err := s.queue.List(ctx)
	if err != nil {
		s.log.Error("Ошибка чтения очереди", "error", err)
		result.Stopped = true
		return
	}

	for _, item := range items {
		if ctx.Err() != nil {
			result.Stopped = true
			return
		}

		res := s.syncItem(ctx, item)
		result.Items = append(result.Items, res)
		result.FailedUploads += len(res.FailedUploads)

		switch res.Outcome {
		case OutcomeAccepted:
			result.Accepted++
		case OutcomeDuplicate:
			result.Duplicates++
		case OutcomeTransientFailure:
			// остальные записи ждут следующего прохода, порядок сохраняется
			result.Stopped = true
			return
		}
	}
}

func (s *SyncService) syncItem(ctx context.Context, item *QueuedReading) ItemResult {
	res := ItemResult{ID: item.ID, Pozo: item.Payload.Pozo}
	log := s.log.With("id", item.ID, "pozo", item.Payload.Pozo)

	s.store.Dispatch(state.LecturaSyncStarted{LocalID: item.ID, At: s.now()})

	serverID, err := s.api.CreateLectura(ctx, item.Payload)
	if errors.Is(err, ErrDuplicate) {
		if err := s.queue.Dequeue(ctx, item.ID); err != nil {
			log.Error("Не удалось удалить дубликат из очереди", "error", err)
			s.store.Dispatch(state.LecturaSyncFailed{LocalID: item.ID, At: s.now()})
			res.Outcome = OutcomeTransientFailure
			res.Error = err.Error()
			return res
		}

		log.Warn("Показание за период уже есть на сервере, пропущено")
		s.store.Dispatch(state.LecturaDuplicate{LocalID: item.ID, At: s.now()})
		s.notifier.Notify(Notification{Kind: NotifyDuplicate, LocalID: item.ID, Pozo: item.Payload.Pozo})
		res.Outcome = OutcomeDuplicate
		return res
	}
	if err != nil {
		log.Warn("Не удалось отправить показание, повтор при следующей связи", "error", err)
		s.store.Dispatch(state.LecturaSyncFailed{LocalID: item.ID, At: s.now()})
		res.Outcome = OutcomeTransientFailure
		res.Error = err.Error()
		return res
	}

	res.ServerID = serverID
	res.FailedUploads = s.uploadAttachments(ctx, serverID, item)

	// показание уже создано на сервере: запись удаляется даже при ошибках загрузки фото
	if err := s.queue.Dequeue(ctx, item.ID); err != nil {
		log.Error("Не удалось удалить отправленное показание из очереди", "error", err)
	}

	s.store.Dispatch(state.LecturaSynced{
		LocalID:       item.ID,
		ServerID:      serverID,
		MissingPhotos: res.FailedUploads,
		At:            s.now(),
	})
	s.notifier.Notify(Notification{
		Kind:          NotifyAccepted,
		LocalID:       item.ID,
		Pozo:          item.Payload.Pozo,
		ServerID:      serverID,
		FailedUploads: res.FailedUploads,
	})

	log.Info("Показание отправлено", "server_id", serverID, "failed_uploads", len(res.FailedUploads))
	res.Outcome = OutcomeAccepted
	return res
}

// uploadAttachments загружает фото последовательно; возвращает поля, которые не удалось загрузить
func (s *SyncService) uploadAttachments(ctx context.Context, serverID int, item *QueuedReading) []string {
	var failed []string
	for _, a := range item.Attachments {
		if _, err := s.api.Upload(ctx, RefLecturaPozo, serverID, a.Field, a.MediaRef); err != nil {
			// повторная загрузка не выполняется
			s.log.Warn("Не удалось загрузить фото",
				"id", item.ID,
				"server_id", serverID,
				"field", a.Field,
				"error", err,
			)
			failed = append(failed, a.Field)
		}
	}
	return failed
}

// Trigger запрашивает разбор очереди, не блокируя вызывающего
func (s *SyncService) Trigger() {
	s.mu.Lock()
	if s.isDraining {
		if s.config.FollowUpOnMissedSignal {
			s.followUp = true
		}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// SetConnectivity задает источник состояния связи для периодических проходов.
// Без него периодические проходы не выполняются.
func (s *SyncService) SetConnectivity(conn ConnectivityState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
}

func (s *SyncService) online() bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	return conn != nil && conn.Connected()
}

// OnConnectivityChange - подписчик наблюдателя связи
func (s *SyncService) OnConnectivityChange(isConnected bool) {
	if isConnected {
		s.Trigger()
	}
}

// Run разбирает очередь по запросам до отмены контекста.
// Периодический проход пропускается, пока связи нет.
func (s *SyncService) Run(ctx context.Context) {
	var tick <-chan time.Time
	if s.config.Interval > 0 {
		ticker := time.NewTicker(s.config.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Синхронизация остановлена")
			return
		case <-s.trigger:
		case <-tick:
			if !s.online() {
				continue
			}
		}

		if _, err := s.Drain(ctx); err != nil && !errors.Is(err, ErrDrainInProgress) {
			s.log.Error("Ошибка синхронизации", "error", err)
		}
	}
}

func (s *SyncService) updateStats(result *DrainResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalDrains++
	s.stats.TotalPasses += result.Passes
	s.stats.TotalAccepted += result.Accepted
	s.stats.TotalDuplicates += result.Duplicates
	s.stats.TotalFailedUploads += result.FailedUploads
	if result.Stopped {
		s.stats.TotalStopped++
		s.stats.LastFailed = result.EndTime
	} else {
		s.stats.LastSuccessful = result.EndTime
	}
}

// ClearQueue сбрасывает очередь, если разбор не выполняется, и возвращает id удаленных записей.
// Новый проход не начнется, пока очистка не завершена.
func (s *SyncService) ClearQueue(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isDraining {
		return nil, ErrDrainInProgress
	}

	items, err := s.queue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	if err := s.queue.Clear(ctx); err != nil {
		return nil, fmt.Errorf("ошибка очистки очереди: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

// Stats возвращает копию статистики
func (s *SyncService) Stats() SyncStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// IsDraining проверяет, выполняется ли разбор очереди
func (s *SyncService) IsDraining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDraining
}

// ResetStats сбрасывает статистику синхронизации
func (s *SyncService) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = SyncStats{}
}

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"lecturapozos/internal/app/client/config"
	"lecturapozos/internal/app/client/state"
)

const (
	kvKeyLecturas = "lecturas"
	kvKeyPozos    = "pozos"
	kvKeySession  = "session"
)

var (
	ErrNotAuthenticated = errors.New("требуется вход: pozos auth login")
	ErrUnknownPozo      = errors.New("pozo не найден в справочнике")
	ErrNotFound         = errors.New("показание не найдено")
)

// RemoteAPI - удаленный API, с которым работает клиент
type RemoteAPI interface {
	LecturaAPI
	Prober
	SetToken(token string)
	Login(ctx context.Context, identifier, password string) (string, User, error)
	Register(ctx context.Context, username, email, password string) (string, User, error)
	ListPozos(ctx context.Context) ([]Pozo, error)
	ListLecturas(ctx context.Context) ([]Lectura, error)
}

// App - клиентское приложение: очередь, кэш, синхронизация и сессия
type App struct {
	config      *config.Config
	log         *slog.Logger
	api         RemoteAPI
	storage     *SQLiteStorage
	queue       Queue
	store       *state.Store
	syncService *SyncService
	observer    *ConnectivityObserver
	now         func() time.Time

	persistMu   gosync.Mutex
	unsubscribe []func()
	wg          gosync.WaitGroup
}

// New создает приложение с HTTP клиентом и SQLite хранилищем из конфигурации
func New(cfg *config.Config, log *slog.Logger, notifier Notifier) (*App, error) {
	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	app, err := NewWithAPI(cfg, log, httpCl, storage, notifier)
	if err != nil {
		storage.Close()
		return nil, err
	}

	return app, nil
}

// NewWithAPI собирает приложение из готовых зависимостей и восстанавливает кэш
func NewWithAPI(cfg *config.Config, log *slog.Logger, api RemoteAPI, storage *SQLiteStorage, notifier Notifier) (*App, error) {
	app := &App{
		config:  cfg,
		log:     log,
		api:     api,
		storage: storage,
		queue:   storage.Queue(QueueLecturas),
		now:     time.Now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initial, err := app.restore(ctx)
	if err != nil {
		return nil, err
	}
	app.store = state.NewStore(initial, log)

	app.syncService = NewSyncService(app.queue, api, app.store, notifier, SyncConfig{
		FollowUpOnMissedSignal: cfg.FollowUpOnMissedSignal,
		Interval:               time.Duration(cfg.SyncInterval) * time.Second,
	}, log)
	app.observer = NewConnectivityObserver(api, time.Duration(cfg.ProbeInterval)*time.Second, log)
	app.syncService.SetConnectivity(app.observer)

	app.unsubscribe = append(app.unsubscribe,
		app.store.Subscribe(func(state.State) { app.persist() }),
		app.observer.Subscribe(app.syncService.OnConnectivityChange),
	)

	return app, nil
}

// restore читает кэш и очередь и сводит их: очередь - источник истины для ожидающих записей
func (a *App) restore(ctx context.Context) (state.State, error) {
	var (
		entries []state.Entry
		pozos   state.PozosState
		session state.SessionState
	)

	if _, err := a.storage.Get(ctx, kvKeyLecturas, &entries); err != nil {
		a.log.Warn("Кэш показаний поврежден, будет пересоздан", "error", err)
		entries = nil
	}
	if _, err := a.storage.Get(ctx, kvKeyPozos, &pozos); err != nil {
		a.log.Warn("Кэш pozos поврежден, будет пересоздан", "error", err)
		pozos = state.PozosState{}
	}
	if _, err := a.storage.Get(ctx, kvKeySession, &session); err != nil {
		session = state.SessionState{}
	}

	queued, err := a.queue.List(ctx)
	if err != nil {
		return state.State{}, fmt.Errorf("ошибка чтения очереди: %w", err)
	}

	restored := state.Reduce(state.State{}, state.Restored{
		Lecturas: reconcile(entries, queued, pozos),
		Pozos:    pozos,
	})

	token, err := a.readToken()
	if err != nil {
		a.log.Warn("Не удалось прочитать токен", "error", err)
	}
	if token != "" {
		a.api.SetToken(token)
		restored = state.Reduce(restored, state.SessionStarted{UserID: session.UserID, Username: session.Username})
		a.log.Debug("Токен загружен из файла")
	}

	return restored, nil
}

// reconcile сводит кэш с очередью и добавляет записи очереди, которых нет в кэше.
// Запись pending_local вне очереди была сброшена вручную и удаляется.
// Запись pending_sync вне очереди уже удалена из очереди после ответа сервера:
// она остается в кэше как synced без серверного id до RefreshLecturas.
func reconcile(cached []state.Entry, queued []*QueuedReading, pozos state.PozosState) []state.Entry {
	inQueue := make(map[string]bool, len(queued))
	for _, q := range queued {
		inQueue[q.ID] = true
	}

	known := make(map[string]bool, len(cached))
	out := make([]state.Entry, 0, len(cached)+len(queued))
	for _, e := range cached {
		if e.Status.IsPending() && !inQueue[e.LocalID] {
			if e.Status != state.StatusPendingSync {
				continue
			}
			e.Status = state.StatusSynced
		}
		if e.LocalID != "" {
			known[e.LocalID] = true
		}
		out = append(out, e)
	}

	catalog := state.State{Pozos: pozos}
	for _, q := range queued {
		if known[q.ID] {
			continue
		}
		p, _ := catalog.PozoByNombre(q.Payload.Pozo)
		out = append(out, entryFromQueued(q, p.Bateria))
	}

	return out
}

func entryFromQueued(q *QueuedReading, bateria string) state.Entry {
	return state.Entry{
		LocalID:            q.ID,
		Pozo:               q.Payload.Pozo,
		Bateria:            bateria,
		LecturaVolumetrica: q.Payload.LecturaVolumetrica,
		LecturaElectrica:   q.Payload.LecturaElectrica,
		Gasto:              q.Payload.Gasto,
		Observaciones:      q.Payload.Observaciones,
		Capturador:         q.Payload.Capturador,
		FechaCaptura:       q.Payload.FechaCaptura,
		CreatedAt:          q.CreatedAt,
		Status:             state.StatusPendingLocal,
		UpdatedAt:          q.CreatedAt,
	}
}

// persist сохраняет показания, pozos и сессию в KV. Пишется всегда последнее
// состояние, чтобы параллельные Dispatch не затерли его устаревшей копией.
func (a *App) persist() {
	a.persistMu.Lock()
	defer a.persistMu.Unlock()

	s := a.store.State()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.storage.Put(ctx, kvKeyLecturas, s.Lecturas.Entries); err != nil {
		a.log.Error("Не удалось сохранить кэш показаний", "error", err)
	}
	if err := a.storage.Put(ctx, kvKeyPozos, s.Pozos); err != nil {
		a.log.Error("Не удалось сохранить кэш pozos", "error", err)
	}
	if err := a.storage.Put(ctx, kvKeySession, s.Session); err != nil {
		a.log.Error("Не удалось сохранить сессию", "error", err)
	}
}

// Store возвращает контейнер состояния
func (a *App) Store() *state.Store {
	return a.store
}

// Login выполняет вход и сохраняет токен
func (a *App) Login(ctx context.Context, identifier, password string) (User, error) {
	token, user, err := a.api.Login(ctx, identifier, password)
	if err != nil {
		return User{}, err
	}

	if err := a.startSession(token, user); err != nil {
		return User{}, err
	}
	a.log.Info("Вход выполнен успешно", "username", user.Username)

	return user, nil
}

// Register регистрирует пользователя и сразу открывает сессию
func (a *App) Register(ctx context.Context, username, email, password string) (User, error) {
	token, user, err := a.api.Register(ctx, username, email, password)
	if err != nil {
		return User{}, err
	}

	if err := a.startSession(token, user); err != nil {
		return User{}, err
	}
	a.log.Info("Пользователь успешно зарегистрирован", "username", user.Username)

	return user, nil
}

func (a *App) startSession(token string, user User) error {
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	a.api.SetToken(token)
	a.store.Dispatch(state.SessionStarted{UserID: user.ID, Username: user.Username})

	return nil
}

// Logout удаляет токен. Очередь не очищается.
func (a *App) Logout() error {
	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	a.api.SetToken("")
	a.store.Dispatch(state.SessionEnded{})

	return nil
}

// IsAuthenticated проверяет, выполнен ли вход
func (a *App) IsAuthenticated() bool {
	return a.store.State().Session.Authenticated
}

func (a *App) readToken() (string, error) {
	data, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Capture проверяет форму, ставит показание в очередь и запрашивает синхронизацию.
// Ошибка записи в очередь возвращается пользователю: показание не сохранено.
func (a *App) Capture(ctx context.Context, req CaptureRequest) (*QueuedReading, error) {
	s := a.store.State()
	if !s.Session.Authenticated {
		return nil, ErrNotAuthenticated
	}

	req.Pozo = strings.TrimSpace(req.Pozo)
	if req.Pozo == "" {
		return nil, fmt.Errorf("%w: не выбран pozo", ErrInvalidReading)
	}
	if strings.TrimSpace(req.LecturaVolumetrica) == "" || strings.TrimSpace(req.LecturaElectrica) == "" {
		return nil, fmt.Errorf("%w: требуются оба показания счетчиков", ErrInvalidReading)
	}

	var bateria string
	if len(s.Pozos.Items) > 0 {
		p, ok := s.PozoByNombre(req.Pozo)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPozo, req.Pozo)
		}
		bateria = p.Bateria
	}

	attachments, err := resolveAttachments(req)
	if err != nil {
		return nil, err
	}

	now := a.now()
	item, err := NewQueuedReading(Payload{
		Pozo:               req.Pozo,
		LecturaVolumetrica: strings.TrimSpace(req.LecturaVolumetrica),
		LecturaElectrica:   strings.TrimSpace(req.LecturaElectrica),
		Gasto:              strings.TrimSpace(req.Gasto),
		Observaciones:      strings.TrimSpace(req.Observaciones),
		FechaCaptura:       now,
		Capturador:         s.Session.UserID,
		Estado:             EstadoCapturada,
	}, attachments, now)
	if err != nil {
		return nil, err
	}

	if err := a.queue.Enqueue(ctx, item); err != nil {
		return nil, fmt.Errorf("ошибка сохранения показания: %w", err)
	}

	a.store.Dispatch(state.LecturaQueued{Entry: entryFromQueued(item, bateria)})
	a.log.Info("Показание поставлено в очередь", "id", item.ID, "pozo", item.Payload.Pozo, "photos", len(attachments))

	a.syncService.Trigger()

	return item, nil
}

// resolveAttachments переводит пути фото в абсолютные и проверяет, что файлы существуют
func resolveAttachments(req CaptureRequest) ([]Attachment, error) {
	var out []Attachment
	for _, f := range []struct{ field, path string }{
		{FieldFotoVolumetrico, req.FotoVolumetrico},
		{FieldFotoElectrico, req.FotoElectrico},
	} {
		if strings.TrimSpace(f.path) == "" {
			continue
		}
		abs, err := filepath.Abs(f.path)
		if err != nil {
			return nil, fmt.Errorf("%w: путь к фото %s: %v", ErrInvalidReading, f.field, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: фото %s недоступно: %v", ErrInvalidReading, f.field, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: фото %s - это каталог", ErrInvalidReading, f.field)
		}
		out = append(out, Attachment{Field: f.field, MediaRef: abs})
	}
	return out, nil
}

// RefreshPozos загружает справочник pozos с сервера в кэш
func (a *App) RefreshPozos(ctx context.Context) ([]state.Pozo, error) {
	remote, err := a.api.ListPozos(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки pozos: %w", err)
	}

	pozos := make([]state.Pozo, 0, len(remote))
	for _, p := range remote {
		pozos = append(pozos, state.Pozo{ID: p.ID, Nombre: p.Nombre, Bateria: p.Bateria})
	}
	a.store.Dispatch(state.PozosLoaded{Pozos: pozos, At: a.now()})

	return pozos, nil
}

// RefreshLecturas загружает принятые сервером показания в кэш
func (a *App) RefreshLecturas(ctx context.Context) (int, error) {
	remote, err := a.api.ListLecturas(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка загрузки показаний: %w", err)
	}

	catalog := a.store.State()
	entries := make([]state.Entry, 0, len(remote))
	for _, l := range remote {
		p, _ := catalog.PozoByNombre(l.Pozo)
		entries = append(entries, state.Entry{
			ServerID:           l.ID,
			Pozo:               l.Pozo,
			Bateria:            p.Bateria,
			LecturaVolumetrica: l.LecturaVolumetrica,
			LecturaElectrica:   l.LecturaElectrica,
			Gasto:              l.Gasto,
			Observaciones:      l.Observaciones,
			Capturador:         l.Capturador,
			FechaCaptura:       l.FechaCaptura,
			CreatedAt:          l.CreatedAt,
			UpdatedAt:          a.now(),
		})
	}
	a.store.Dispatch(state.LecturasLoaded{Entries: entries})

	return len(entries), nil
}

// ListLecturas возвращает показания из кэша, подходящие под все условия
func (a *App) ListLecturas(preds ...state.Predicate) []state.Entry {
	return state.Filter(a.store.State(), preds...)
}

// Pozos возвращает справочник из кэша
func (a *App) Pozos() state.PozosState {
	return a.store.State().Pozos
}

// QueueItems возвращает содержимое очереди в порядке отправки
func (a *App) QueueItems(ctx context.Context) ([]*QueuedReading, error) {
	return a.queue.List(ctx)
}

// ClearQueue вручную сбрасывает все неотправленные показания
func (a *App) ClearQueue(ctx context.Context) (int, error) {
	ids, err := a.syncService.ClearQueue(ctx)
	if err != nil {
		return 0, err
	}

	a.store.Dispatch(state.QueueCleared{LocalIDs: ids})
	a.log.Warn("Очередь очищена вручную", "count", len(ids))

	return len(ids), nil
}

// ClearCache удаляет кэш сервера; ожидающие отправки записи сохраняются
func (a *App) ClearCache(ctx context.Context) error {
	if err := a.storage.Purge(ctx); err != nil {
		return fmt.Errorf("ошибка очистки кэша: %w", err)
	}

	a.store.Dispatch(state.Restored{Lecturas: state.SelectPending(a.store.State())})
	return nil
}

// Ticket формирует квитанцию по локальному или серверному id
func (a *App) Ticket(id string) (string, error) {
	e, ok := state.FindByID(a.store.State(), id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return RenderTicket(e), nil
}

// CheckConnection проверяет связь и уведомляет подписчиков о смене состояния
func (a *App) CheckConnection(ctx context.Context) bool {
	return a.observer.Check(ctx)
}

// Sync выполняет один разбор очереди
func (a *App) Sync(ctx context.Context) (*DrainResult, error) {
	if !a.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return a.syncService.Drain(ctx)
}

// SyncStats возвращает статистику синхронизации
func (a *App) SyncStats() SyncStats {
	return a.syncService.Stats()
}

// Watch следит за связью и разбирает очередь при ее появлении до отмены контекста
func (a *App) Watch(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.syncService.Run(ctx)
	}()

	a.log.Info("Клиент запущен",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
	)

	a.observer.Run(ctx)
	a.wg.Wait()
}

// Close освобождает ресурсы приложения
func (a *App) Close() error {
	for _, unsub := range a.unsubscribe {
		unsub()
	}
	a.wg.Wait()
	return a.storage.Close()
}

package state

import "time"

// Action - сообщение, изменяющее состояние через редьюсер
type Action interface {
	actionName() string
}

type LecturaQueued struct {
	Entry Entry
}

type LecturaSyncStarted struct {
	LocalID string
	At      time.Time
}

type LecturaSynced struct {
	LocalID       string
	ServerID      int
	MissingPhotos []string
	At            time.Time
}

type LecturaDuplicate struct {
	LocalID string
	At      time.Time
}

type LecturaSyncFailed struct {
	LocalID string
	At      time.Time
}

// LecturasLoaded - показания, полученные с сервера
type LecturasLoaded struct {
	Entries []Entry
}

// QueueCleared - пользователь вручную сбросил ожидающие записи
type QueueCleared struct {
	LocalIDs []string
}

type PozosLoaded struct {
	Pozos []Pozo
	At    time.Time
}

type SessionStarted struct {
	UserID   int
	Username string
}

type SessionEnded struct{}

// Restored - восстановление кэша из локального хранилища при старте
type Restored struct {
	Lecturas []Entry
	Pozos    PozosState
}

func (LecturaQueued) actionName() string      { return "lectura/queued" }
func (LecturaSyncStarted) actionName() string { return "lectura/sync_started" }
func (LecturaSynced) actionName() string      { return "lectura/synced" }
func (LecturaDuplicate) actionName() string   { return "lectura/duplicate" }
func (LecturaSyncFailed) actionName() string  { return "lectura/sync_failed" }
func (LecturasLoaded) actionName() string     { return "lectura/loaded" }
func (QueueCleared) actionName() string       { return "lectura/queue_cleared" }
func (PozosLoaded) actionName() string        { return "pozo/loaded" }
func (SessionStarted) actionName() string     { return "session/started" }
func (SessionEnded) actionName() string       { return "session/ended" }
func (Restored) actionName() string           { return "store/restored" }

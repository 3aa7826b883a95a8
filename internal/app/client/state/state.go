// Package state - контейнер состояния клиента: корневое состояние из срезов,
// чистые редьюсеры и селекторы. Мутации выполняются только через Dispatch.
package state

import "time"

// Status - явное состояние показания в интерфейсе
type Status string

const (
	StatusPendingLocal       Status = "pending_local"
	StatusPendingSync        Status = "pending_sync"
	StatusSynced             Status = "synced"
	StatusDuplicateDiscarded Status = "duplicate_discarded"
)

var transitions = map[Status][]Status{
	StatusPendingLocal: {StatusPendingSync},
	StatusPendingSync:  {StatusSynced, StatusDuplicateDiscarded, StatusPendingLocal},
}

// CanTransition проверяет допустимость перехода
func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsPending - запись еще не подтверждена сервером
func (s Status) IsPending() bool {
	return s == StatusPendingLocal || s == StatusPendingSync
}

// Entry - показание в кэше: из очереди или уже синхронизированное
type Entry struct {
	LocalID            string    `json:"local_id,omitempty"`
	ServerID           int       `json:"server_id,omitempty"`
	Pozo               string    `json:"pozo"`
	Bateria            string    `json:"bateria,omitempty"`
	LecturaVolumetrica string    `json:"lectura_volumetrica"`
	LecturaElectrica   string    `json:"lectura_electrica"`
	Gasto              string    `json:"gasto,omitempty"`
	Observaciones      string    `json:"observaciones,omitempty"`
	Capturador         int       `json:"capturador"`
	FechaCaptura       time.Time `json:"fecha_captura"`
	CreatedAt          time.Time `json:"created_at"`
	Status             Status    `json:"status"`
	MissingPhotos      []string  `json:"missing_photos,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Pozo - скважина в справочнике
type Pozo struct {
	ID      int    `json:"id"`
	Nombre  string `json:"nombre"`
	Bateria string `json:"bateria"`
}

type LecturasState struct {
	Entries []Entry `json:"entries"`
}

type PozosState struct {
	Items    []Pozo    `json:"items"`
	LoadedAt time.Time `json:"loaded_at"`
}

type SessionState struct {
	Authenticated bool   `json:"authenticated"`
	UserID        int    `json:"user_id"`
	Username      string `json:"username"`
}

// State - корневое состояние приложения
type State struct {
	Lecturas LecturasState
	Pozos    PozosState
	Session  SessionState
}

// Clone возвращает глубокую копию состояния
func (s State) Clone() State {
	out := s
	out.Lecturas.Entries = cloneEntries(s.Lecturas.Entries)
	if s.Pozos.Items != nil {
		out.Pozos.Items = append([]Pozo(nil), s.Pozos.Items...)
	}
	return out
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	dup := make([]Entry, len(entries))
	for i, e := range entries {
		dup[i] = e
		if e.MissingPhotos != nil {
			dup[i].MissingPhotos = append([]string(nil), e.MissingPhotos...)
		}
	}
	return dup
}

// PozoByNombre ищет скважину по имени
func (s State) PozoByNombre(nombre string) (Pozo, bool) {
	for _, p := range s.Pozos.Items {
		if p.Nombre == nombre {
			return p, true
		}
	}
	return Pozo{}, false
}

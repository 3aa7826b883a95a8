package state

import (
	"strconv"
	"strings"
	"time"
)

// Predicate - условие фильтрации показаний
type Predicate func(e Entry) bool

// SelectAll возвращает все показания в порядке добавления
func SelectAll(s State) []Entry {
	return cloneEntries(s.Lecturas.Entries)
}

// SelectPending возвращает показания, еще не подтвержденные сервером
func SelectPending(s State) []Entry {
	return Filter(s, func(e Entry) bool { return e.Status.IsPending() })
}

// SelectForToday возвращает показания, созданные в текущий день
func SelectForToday(s State, now time.Time) []Entry {
	y, m, d := now.Date()
	return Filter(s, func(e Entry) bool {
		ey, em, ed := e.CreatedAt.In(now.Location()).Date()
		return ey == y && em == m && ed == d
	})
}

// Filter - линейный проход по списку с объединением условий через И
func Filter(s State, preds ...Predicate) []Entry {
	out := []Entry{}
	for _, e := range s.Lecturas.Entries {
		if matchAll(e, preds) {
			out = append(out, e)
		}
	}
	return cloneEntries(out)
}

// CountByStatus - счетчики для бейджей
func CountByStatus(s State) map[Status]int {
	counts := make(map[Status]int)
	for _, e := range s.Lecturas.Entries {
		counts[e.Status]++
	}
	return counts
}

// FindByID ищет показание по локальному id или по id на сервере
func FindByID(s State, id string) (Entry, bool) {
	for _, e := range s.Lecturas.Entries {
		if e.LocalID == id {
			return e, true
		}
	}
	for _, e := range s.Lecturas.Entries {
		if e.ServerID != 0 && strconv.Itoa(e.ServerID) == id {
			return e, true
		}
	}
	return Entry{}, false
}

func matchAll(e Entry, preds []Predicate) bool {
	for _, p := range preds {
		if p != nil && !p(e) {
			return false
		}
	}
	return true
}

func ByPozo(pozo string) Predicate {
	return func(e Entry) bool { return e.Pozo == pozo }
}

func ByBateria(bateria string) Predicate {
	return func(e Entry) bool { return strings.EqualFold(e.Bateria, bateria) }
}

// ByDateRange - fecha_captura в интервале [from, to]; нулевая граница не ограничивает
func ByDateRange(from, to time.Time) Predicate {
	return func(e Entry) bool {
		if !from.IsZero() && e.FechaCaptura.Before(from) {
			return false
		}
		if !to.IsZero() && e.FechaCaptura.After(to) {
			return false
		}
		return true
	}
}

func ByCapturador(userID int) Predicate {
	return func(e Entry) bool { return e.Capturador == userID }
}

func ByStatus(statuses ...Status) Predicate {
	return func(e Entry) bool {
		for _, st := range statuses {
			if e.Status == st {
				return true
			}
		}
		return false
	}
}

// Search - поиск без учета регистра по скважине, батарее и примечаниям
func Search(text string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(text))
	return func(e Entry) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(e.Pozo), needle) ||
			strings.Contains(strings.ToLower(e.Bateria), needle) ||
			strings.Contains(strings.ToLower(e.Observaciones), needle)
	}
}

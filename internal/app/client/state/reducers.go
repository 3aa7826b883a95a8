package state

// Reduce - корневой редьюсер: каждый срез обрабатывает действие независимо.
// Функции не изменяют входное состояние.
func Reduce(s State, a Action) State {
	return State{
		Lecturas: reduceLecturas(s.Lecturas, a),
		Pozos:    reducePozos(s.Pozos, a),
		Session:  reduceSession(s.Session, a),
	}
}

func reduceLecturas(s LecturasState, a Action) LecturasState {
	switch act := a.(type) {
	case LecturaQueued:
		if act.Entry.LocalID == "" || indexByLocalID(s.Entries, act.Entry.LocalID) >= 0 {
			return s
		}
		entry := act.Entry
		entry.Status = StatusPendingLocal
		entries := cloneEntries(s.Entries)
		return LecturasState{Entries: append(entries, entry)}

	case LecturaSyncStarted:
		return transition(s, act.LocalID, StatusPendingSync, func(e *Entry) {
			e.UpdatedAt = act.At
		})

	case LecturaSynced:
		return transition(s, act.LocalID, StatusSynced, func(e *Entry) {
			e.ServerID = act.ServerID
			e.MissingPhotos = append([]string(nil), act.MissingPhotos...)
			e.UpdatedAt = act.At
		})

	case LecturaDuplicate:
		return transition(s, act.LocalID, StatusDuplicateDiscarded, func(e *Entry) {
			e.UpdatedAt = act.At
		})

	case LecturaSyncFailed:
		return transition(s, act.LocalID, StatusPendingLocal, func(e *Entry) {
			e.UpdatedAt = act.At
		})

	case LecturasLoaded:
		entries := cloneEntries(s.Entries)
		for _, incoming := range act.Entries {
			if incoming.ServerID == 0 {
				continue
			}
			incoming.Status = StatusSynced
			if i := indexByServerID(entries, incoming.ServerID); i >= 0 {
				incoming.LocalID = entries[i].LocalID
				incoming.MissingPhotos = entries[i].MissingPhotos
				if incoming.Bateria == "" {
					incoming.Bateria = entries[i].Bateria
				}
				entries[i] = incoming
				continue
			}
			if i := indexUnconfirmed(entries, incoming); i >= 0 {
				entries[i].ServerID = incoming.ServerID
				if !incoming.UpdatedAt.IsZero() {
					entries[i].UpdatedAt = incoming.UpdatedAt
				}
				continue
			}
			entries = append(entries, incoming)
		}
		return LecturasState{Entries: entries}

	case QueueCleared:
		drop := make(map[string]bool, len(act.LocalIDs))
		for _, id := range act.LocalIDs {
			drop[id] = true
		}
		entries := make([]Entry, 0, len(s.Entries))
		for _, e := range cloneEntries(s.Entries) {
			if e.Status.IsPending() && drop[e.LocalID] {
				continue
			}
			entries = append(entries, e)
		}
		return LecturasState{Entries: entries}

	case Restored:
		entries := cloneEntries(act.Lecturas)
		for i := range entries {
			// прерванный проход синхронизации
			if entries[i].Status == StatusPendingSync {
				entries[i].Status = StatusPendingLocal
			}
		}
		return LecturasState{Entries: entries}

	case SessionEnded:
		// записи из очереди остаются: они будут отправлены после следующего входа
		entries := make([]Entry, 0, len(s.Entries))
		for _, e := range cloneEntries(s.Entries) {
			if e.Status.IsPending() {
				entries = append(entries, e)
			}
		}
		return LecturasState{Entries: entries}
	}

	return s
}

func reducePozos(s PozosState, a Action) PozosState {
	switch act := a.(type) {
	case PozosLoaded:
		return PozosState{
			Items:    append([]Pozo(nil), act.Pozos...),
			LoadedAt: act.At,
		}
	case Restored:
		return PozosState{
			Items:    append([]Pozo(nil), act.Pozos.Items...),
			LoadedAt: act.Pozos.LoadedAt,
		}
	}

	return s
}

func reduceSession(s SessionState, a Action) SessionState {
	switch act := a.(type) {
	case SessionStarted:
		return SessionState{
			Authenticated: true,
			UserID:        act.UserID,
			Username:      act.Username,
		}
	case SessionEnded:
		return SessionState{}
	}

	return s
}

// transition применяет переход состояния; недопустимый переход игнорируется
func transition(s LecturasState, localID string, to Status, apply func(e *Entry)) LecturasState {
	i := indexByLocalID(s.Entries, localID)
	if i < 0 || !s.Entries[i].Status.CanTransition(to) {
		return s
	}

	entries := cloneEntries(s.Entries)
	entries[i].Status = to
	apply(&entries[i])

	return LecturasState{Entries: entries}
}

func indexByLocalID(entries []Entry, id string) int {
	if id == "" {
		return -1
	}
	for i, e := range entries {
		if e.LocalID == id {
			return i
		}
	}
	return -1
}

func indexByServerID(entries []Entry, id int) int {
	for i, e := range entries {
		if e.ServerID == id {
			return i
		}
	}
	return -1
}

// indexUnconfirmed ищет принятую запись без серверного id за тот же месяц той же скважины.
// На сервере такая пара уникальна.
func indexUnconfirmed(entries []Entry, incoming Entry) int {
	periodo := incoming.FechaCaptura.Format("2006-01")
	for i, e := range entries {
		if e.ServerID == 0 && e.Status == StatusSynced &&
			e.Pozo == incoming.Pozo && e.FechaCaptura.Format("2006-01") == periodo {
			return i
		}
	}
	return -1
}

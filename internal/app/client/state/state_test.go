package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lecturapozos/internal/utils/logger"
)

func queued(id, pozo string, created time.Time) Entry {
	return Entry{
		LocalID:            id,
		Pozo:               pozo,
		LecturaVolumetrica: "1234",
		LecturaElectrica:   "567",
		FechaCaptura:       created,
		CreatedAt:          created,
	}
}

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPendingLocal, StatusPendingSync, true},
		{StatusPendingLocal, StatusSynced, false},
		{StatusPendingSync, StatusSynced, true},
		{StatusPendingSync, StatusDuplicateDiscarded, true},
		{StatusPendingSync, StatusPendingLocal, true},
		{StatusSynced, StatusPendingLocal, false},
		{StatusDuplicateDiscarded, StatusPendingSync, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestReduce_Lifecycle(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s := State{}

	s = Reduce(s, LecturaQueued{Entry: queued("r1", "35", now)})
	require.Len(t, s.Lecturas.Entries, 1)
	assert.Equal(t, StatusPendingLocal, s.Lecturas.Entries[0].Status)

	// повторная постановка того же id игнорируется
	s = Reduce(s, LecturaQueued{Entry: queued("r1", "35", now)})
	assert.Len(t, s.Lecturas.Entries, 1)

	// нельзя перескочить pending_sync
	skipped := Reduce(s, LecturaSynced{LocalID: "r1", ServerID: 99, At: now})
	assert.Equal(t, StatusPendingLocal, skipped.Lecturas.Entries[0].Status)

	s = Reduce(s, LecturaSyncStarted{LocalID: "r1", At: now})
	assert.Equal(t, StatusPendingSync, s.Lecturas.Entries[0].Status)

	s = Reduce(s, LecturaSynced{LocalID: "r1", ServerID: 99, MissingPhotos: []string{"foto_electrico"}, At: now})
	e := s.Lecturas.Entries[0]
	assert.Equal(t, StatusSynced, e.Status)
	assert.Equal(t, 99, e.ServerID)
	assert.Equal(t, []string{"foto_electrico"}, e.MissingPhotos)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	before := Reduce(State{}, LecturaQueued{Entry: queued("r1", "35", now)})

	after := Reduce(before, LecturaSyncStarted{LocalID: "r1", At: now})

	assert.Equal(t, StatusPendingLocal, before.Lecturas.Entries[0].Status)
	assert.Equal(t, StatusPendingSync, after.Lecturas.Entries[0].Status)
}

func TestReduce_FailureReturnsToPendingLocal(t *testing.T) {
	now := time.Now()
	s := Reduce(State{}, LecturaQueued{Entry: queued("r1", "35", now)})
	s = Reduce(s, LecturaSyncStarted{LocalID: "r1", At: now})
	s = Reduce(s, LecturaSyncFailed{LocalID: "r1", At: now})

	assert.Equal(t, StatusPendingLocal, s.Lecturas.Entries[0].Status)
}

func TestReduce_LecturasLoadedDeduplicates(t *testing.T) {
	now := time.Now()
	s := Reduce(State{}, LecturaQueued{Entry: queued("r1", "35", now)})
	s = Reduce(s, LecturaSyncStarted{LocalID: "r1", At: now})
	s = Reduce(s, LecturaSynced{LocalID: "r1", ServerID: 99, At: now})

	s = Reduce(s, LecturasLoaded{Entries: []Entry{
		{ServerID: 99, Pozo: "35", LecturaVolumetrica: "1234"},
		{ServerID: 100, Pozo: "12", LecturaVolumetrica: "10"},
		{Pozo: "sin-id"},
	}})

	require.Len(t, s.Lecturas.Entries, 2)
	assert.Equal(t, "r1", s.Lecturas.Entries[0].LocalID)
	assert.Equal(t, StatusSynced, s.Lecturas.Entries[1].Status)
	assert.Equal(t, 100, s.Lecturas.Entries[1].ServerID)
}

func TestReduce_LecturasLoadedConfirmsUnconfirmed(t *testing.T) {
	captured := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	orphan := queued("r1", "35", captured)
	orphan.Status = StatusSynced

	s := Reduce(State{}, Restored{Lecturas: []Entry{orphan}})
	s = Reduce(s, LecturasLoaded{Entries: []Entry{
		{ServerID: 41, Pozo: "35", FechaCaptura: captured.Add(2 * time.Hour)},
		{ServerID: 42, Pozo: "35", FechaCaptura: captured.AddDate(0, -1, 0)},
	}})

	require.Len(t, s.Lecturas.Entries, 2)
	assert.Equal(t, "r1", s.Lecturas.Entries[0].LocalID)
	assert.Equal(t, 41, s.Lecturas.Entries[0].ServerID)
	assert.Equal(t, 42, s.Lecturas.Entries[1].ServerID)
	assert.Empty(t, s.Lecturas.Entries[1].LocalID)
}

func TestReduce_QueueClearedOnlyDropsPending(t *testing.T) {
	now := time.Now()
	s := Reduce(State{}, LecturaQueued{Entry: queued("r1", "35", now)})
	s = Reduce(s, LecturaQueued{Entry: queued("r2", "36", now)})
	s = Reduce(s, LecturaSyncStarted{LocalID: "r2", At: now})
	s = Reduce(s, LecturaSynced{LocalID: "r2", ServerID: 7, At: now})

	s = Reduce(s, QueueCleared{LocalIDs: []string{"r1", "r2"}})

	require.Len(t, s.Lecturas.Entries, 1)
	assert.Equal(t, "r2", s.Lecturas.Entries[0].LocalID)
}

func TestReduce_RestoredResetsInterruptedSync(t *testing.T) {
	e := queued("r1", "35", time.Now())
	e.Status = StatusPendingSync

	s := Reduce(State{}, Restored{Lecturas: []Entry{e}, Pozos: PozosState{Items: []Pozo{{ID: 1, Nombre: "35"}}}})

	assert.Equal(t, StatusPendingLocal, s.Lecturas.Entries[0].Status)
	assert.Len(t, s.Pozos.Items, 1)
}

func TestReduce_Session(t *testing.T) {
	s := Reduce(State{}, SessionStarted{UserID: 4, Username: "tecnico"})
	assert.True(t, s.Session.Authenticated)
	assert.Equal(t, 4, s.Session.UserID)

	s = Reduce(s, LecturaQueued{Entry: queued("r1", "35", time.Now())})
	s = Reduce(s, LecturasLoaded{Entries: []Entry{{ServerID: 9, Pozo: "12"}}})
	require.Len(t, s.Lecturas.Entries, 2)

	s = Reduce(s, SessionEnded{})
	assert.False(t, s.Session.Authenticated)
	require.Len(t, s.Lecturas.Entries, 1)
	assert.Equal(t, "r1", s.Lecturas.Entries[0].LocalID)
}

func TestSelectors(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	yesterday := now.Add(-24 * time.Hour)

	s := State{}
	r1 := queued("r1", "35", now)
	r1.Bateria = "Norte"
	r1.Capturador = 4
	r1.Observaciones = "Medidor empañado"
	r2 := queued("r2", "36", yesterday)
	r2.Bateria = "Sur"
	r2.Capturador = 5

	s = Reduce(s, LecturaQueued{Entry: r1})
	s = Reduce(s, LecturaQueued{Entry: r2})
	s = Reduce(s, LecturaSyncStarted{LocalID: "r2", At: now})
	s = Reduce(s, LecturaSynced{LocalID: "r2", ServerID: 12, At: now})

	assert.Len(t, SelectAll(s), 2)

	pending := SelectPending(s)
	require.Len(t, pending, 1)
	assert.Equal(t, "r1", pending[0].LocalID)

	today := SelectForToday(s, now)
	require.Len(t, today, 1)
	assert.Equal(t, "r1", today[0].LocalID)

	assert.Len(t, Filter(s, ByBateria("norte")), 1)
	assert.Len(t, Filter(s, ByPozo("36"), ByCapturador(5)), 1)
	assert.Empty(t, Filter(s, ByPozo("36"), ByCapturador(4)))
	assert.Len(t, Filter(s, ByDateRange(now.Add(-time.Hour), time.Time{})), 1)
	assert.Len(t, Filter(s, ByStatus(StatusSynced)), 1)
	assert.Len(t, Filter(s, Search("EMPAÑADO")), 1)

	counts := CountByStatus(s)
	assert.Equal(t, 1, counts[StatusPendingLocal])
	assert.Equal(t, 1, counts[StatusSynced])

	found, ok := FindByID(s, "12")
	require.True(t, ok)
	assert.Equal(t, "r2", found.LocalID)
}

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	store := NewStore(State{}, logger.Discard())

	var seen []int
	unsubscribe := store.Subscribe(func(s State) {
		seen = append(seen, len(s.Lecturas.Entries))
	})

	store.Dispatch(LecturaQueued{Entry: queued("r1", "35", time.Now())})
	store.Dispatch(LecturaQueued{Entry: queued("r2", "35", time.Now())})
	unsubscribe()
	store.Dispatch(LecturaQueued{Entry: queued("r3", "35", time.Now())})

	assert.Equal(t, []int{1, 2}, seen)
	assert.Len(t, store.State().Lecturas.Entries, 3)
}

func TestStore_StateIsCopy(t *testing.T) {
	store := NewStore(State{}, logger.Discard())
	store.Dispatch(LecturaQueued{Entry: queued("r1", "35", time.Now())})

	snap := store.State()
	snap.Lecturas.Entries[0].Pozo = "changed"

	assert.Equal(t, "35", store.State().Lecturas.Entries[0].Pozo)
}

package client

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReading(t *testing.T, pozo string, attachments ...Attachment) *QueuedReading {
	t.Helper()
	item, err := NewQueuedReading(Payload{
		Pozo:               pozo,
		LecturaVolumetrica: "100",
		LecturaElectrica:   "200",
		FechaCaptura:       time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Capturador:         3,
		Estado:             EstadoCapturada,
	}, attachments, time.Now())
	require.NoError(t, err)
	return item
}

func TestSQLiteQueue_EnqueueIncrementsLength(t *testing.T) {
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	q := storage.Queue(QueueLecturas)

	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Enqueue(ctx, newTestReading(t, "35")))
		n, err := q.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
}

func TestSQLiteQueue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	ctx := context.Background()

	storage, err := NewSQLiteStorage(path)
	require.NoError(t, err)

	first := newTestReading(t, "10", Attachment{Field: FieldFotoElectrico, MediaRef: "/fotos/e.jpg"})
	second := newTestReading(t, "11")
	third := newTestReading(t, "12")

	q := storage.Queue(QueueLecturas)
	for _, it := range []*QueuedReading{first, second, third} {
		require.NoError(t, q.Enqueue(ctx, it))
	}
	require.NoError(t, storage.Close())

	storage, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	items, err := storage.Queue(QueueLecturas).List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, third.ID, items[2].ID)

	assert.Equal(t, first.Payload.Pozo, items[0].Payload.Pozo)
	assert.True(t, first.Payload.FechaCaptura.Equal(items[0].Payload.FechaCaptura))
	assert.Equal(t, first.Attachments, items[0].Attachments)
	assert.Empty(t, items[1].Attachments)
}

func TestSQLiteQueue_Dequeue(t *testing.T) {
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	q := storage.Queue(QueueLecturas)

	a := newTestReading(t, "10")
	b := newTestReading(t, "11")
	require.NoError(t, q.Enqueue(ctx, a))
	require.NoError(t, q.Enqueue(ctx, b))

	require.NoError(t, q.Dequeue(ctx, a.ID))
	// повторное удаление ничего не меняет
	require.NoError(t, q.Dequeue(ctx, a.ID))
	require.NoError(t, q.Dequeue(ctx, "no-such-id"))

	items, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestSQLiteQueue_RejectsDuplicateAndInvalid(t *testing.T) {
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	q := storage.Queue(QueueLecturas)

	item := newTestReading(t, "10")
	require.NoError(t, q.Enqueue(ctx, item))
	assert.ErrorIs(t, q.Enqueue(ctx, item), ErrDuplicateID)

	bad := &QueuedReading{ID: "x", Payload: Payload{}}
	assert.ErrorIs(t, q.Enqueue(ctx, bad), ErrInvalidReading)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteQueue_NamesAreIsolated(t *testing.T) {
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	lecturas := storage.Queue(QueueLecturas)
	other := storage.Queue("tickets")

	require.NoError(t, lecturas.Enqueue(ctx, newTestReading(t, "10")))
	require.NoError(t, other.Enqueue(ctx, newTestReading(t, "11")))

	require.NoError(t, other.Clear(ctx))

	n, err := lecturas.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = other.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStorage_KV(t *testing.T) {
	storage, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	q := storage.Queue(QueueLecturas)
	require.NoError(t, q.Enqueue(ctx, newTestReading(t, "10")))

	var pozos []Pozo
	found, err := storage.Get(ctx, "pozos", &pozos)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, storage.Put(ctx, "pozos", []Pozo{{ID: 1, Nombre: "35", Bateria: "Norte"}}))
	require.NoError(t, storage.Put(ctx, "pozos", []Pozo{{ID: 2, Nombre: "36", Bateria: "Sur"}}))

	found, err = storage.Get(ctx, "pozos", &pozos)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []Pozo{{ID: 2, Nombre: "36", Bateria: "Sur"}}, pozos)

	require.NoError(t, storage.Delete(ctx, "pozos"))
	found, err = storage.Get(ctx, "pozos", &pozos)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, storage.Put(ctx, "users", []User{{ID: 1}}))
	require.NoError(t, storage.Purge(ctx))

	var users []User
	found, err = storage.Get(ctx, "users", &users)
	require.NoError(t, err)
	assert.False(t, found)

	// сброс кэша не затрагивает очередь
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

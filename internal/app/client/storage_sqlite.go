package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Queue - долговременная очередь показаний (at-least-once)
type Queue interface {
	Enqueue(ctx context.Context, item *QueuedReading) error
	Dequeue(ctx context.Context, id string) error
	List(ctx context.Context) ([]*QueuedReading, error)
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// KV - хранилище JSON-блобов под фиксированными ключами
type KV interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Put(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	Purge(ctx context.Context) error
}

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}
	// одна запись за раз: порядок вставки = порядок очереди
	db.SetMaxOpenConns(1)

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации таблиц: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS queue (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			queue TEXT NOT NULL,
			payload TEXT NOT NULL,
			attachments TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_queue_name ON queue(queue, seq);

		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)

	return err
}

// Queue возвращает логическую очередь с указанным именем
func (s *SQLiteStorage) Queue(name string) *SQLiteQueue {
	return &SQLiteQueue{db: s.db, name: name}
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// ==================== Queue ====================

type SQLiteQueue struct {
	db   *sql.DB
	name string
}

func (q *SQLiteQueue) Enqueue(ctx context.Context, item *QueuedReading) error {
	if err := item.Validate(); err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(item.Payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации показания: %w", err)
	}

	attachments := item.Attachments
	if attachments == nil {
		attachments = []Attachment{}
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("ошибка сериализации вложений: %w", err)
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO queue (id, queue, payload, attachments, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, item.ID, q.name, string(payloadJSON), string(attachmentsJSON), item.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		return fmt.Errorf("ошибка сохранения в очередь: %w", err)
	}

	return nil
}

// Dequeue удаляет запись; отсутствие записи не является ошибкой
func (q *SQLiteQueue) Dequeue(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM queue WHERE queue = ? AND id = ?", q.name, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления из очереди: %w", err)
	}

	return nil
}

func (q *SQLiteQueue) List(ctx context.Context) ([]*QueuedReading, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, payload, attachments, created_at
		FROM queue
		WHERE queue = ?
		ORDER BY seq ASC
	`, q.name)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	items := []*QueuedReading{}
	for rows.Next() {
		var item QueuedReading
		var payloadJSON, attachmentsJSON, createdAt string

		if err := rows.Scan(&item.ID, &payloadJSON, &attachmentsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}

		if err := json.Unmarshal([]byte(payloadJSON), &item.Payload); err != nil {
			return nil, fmt.Errorf("ошибка парсинга показания %s: %w", item.ID, err)
		}
		if err := json.Unmarshal([]byte(attachmentsJSON), &item.Attachments); err != nil {
			return nil, fmt.Errorf("ошибка парсинга вложений %s: %w", item.ID, err)
		}
		item.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения очереди: %w", err)
	}

	return items, nil
}

func (q *SQLiteQueue) Len(ctx context.Context) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM queue WHERE queue = ?", q.name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return count, nil
}

func (q *SQLiteQueue) Clear(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM queue WHERE queue = ?", q.name)
	if err != nil {
		return fmt.Errorf("ошибка очистки очереди: %w", err)
	}

	return nil
}

// ==================== KV ====================

func (s *SQLiteStorage) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка чтения ключа %s: %w", key, err)
	}

	if err := json.Unmarshal(value, dst); err != nil {
		return false, fmt.Errorf("ошибка парсинга ключа %s: %w", key, err)
	}

	return true, nil
}

func (s *SQLiteStorage) Put(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка сериализации ключа %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("ошибка сохранения ключа %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("ошибка удаления ключа %s: %w", key, err)
	}
	return nil
}

// Purge сбрасывает все кэшированные блобы; очередь не трогает
func (s *SQLiteStorage) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv"); err != nil {
		return fmt.Errorf("ошибка очистки кэша: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"lecturapozos/internal/domain/upload"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

type UploadRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewUploadRepository(db *Storage, log *slog.Logger) *UploadRepository {
	return &UploadRepository{
		db:  db,
		log: log,
	}
}

func (r *UploadRepository) Create(ctx context.Context, f upload.File) (int, error) {
	var id int
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO uploads (name, stored_as, mime, size, url, ref, ref_id, field)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id`,
		f.Name, f.StoredAs, f.Mime, f.Size, f.URL, f.Ref, f.RefID, f.Field).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert upload: %w", err)
	}
	return id, nil
}

func (r *UploadRepository) ListByRef(ctx context.Context, ref string, refID int) ([]upload.File, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, name, stored_as, mime, size, url, ref, ref_id, field, created_at
         FROM uploads WHERE ref = $1 AND ref_id = $2 ORDER BY id`, ref, refID)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}

	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (upload.File, error) {
		var f upload.File
		err := row.Scan(&f.ID, &f.Name, &f.StoredAs, &f.Mime, &f.Size, &f.URL, &f.Ref, &f.RefID, &f.Field, &f.CreatedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan uploads: %w", err)
	}
	return files, nil
}

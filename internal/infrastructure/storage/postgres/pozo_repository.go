package postgres

import (
	"context"
	"fmt"
	"lecturapozos/internal/domain/pozo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

type PozoRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewPozoRepository(db *Storage, log *slog.Logger) *PozoRepository {
	return &PozoRepository{
		db:  db,
		log: log,
	}
}

func (r *PozoRepository) Create(ctx context.Context, p pozo.Pozo) (int, error) {
	var id int
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO pozos (nombre, bateria) VALUES ($1, $2) RETURNING id`,
		p.Nombre, p.Bateria).Scan(&id)
	if isUniqueViolation(err, "pozos_nombre_key") {
		return 0, pozo.ErrAlreadyExists
	}
	return id, err
}

func (r *PozoRepository) List(ctx context.Context) ([]pozo.Pozo, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, nombre, bateria, created_at FROM pozos ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("query pozos: %w", err)
	}

	pozos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (pozo.Pozo, error) {
		var p pozo.Pozo
		err := row.Scan(&p.ID, &p.Nombre, &p.Bateria, &p.CreatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan pozos: %w", err)
	}
	return pozos, nil
}

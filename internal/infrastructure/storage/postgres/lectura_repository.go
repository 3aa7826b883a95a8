package postgres

import (
	"context"
	"fmt"
	"lecturapozos/internal/domain/lectura"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

const lecturaPeriodoConstraint = "lectura_pozos_pozo_periodo_key"

type LecturaRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewLecturaRepository(db *Storage, log *slog.Logger) *LecturaRepository {
	return &LecturaRepository{
		db:  db,
		log: log,
	}
}

func (r *LecturaRepository) Create(ctx context.Context, l lectura.Lectura) (int, error) {
	var id int
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO lectura_pozos
            (pozo, lectura_volumetrica, lectura_electrica, gasto, observaciones,
             fecha_captura, capturador, estado, periodo)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
         RETURNING id`,
		l.Pozo, l.LecturaVolumetrica, l.LecturaElectrica, l.Gasto, l.Observaciones,
		l.FechaCaptura, l.Capturador, l.Estado, l.Periodo).Scan(&id)
	if isUniqueViolation(err, lecturaPeriodoConstraint) {
		return 0, lectura.ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("insert lectura: %w", err)
	}
	return id, nil
}

func (r *LecturaRepository) List(ctx context.Context, f lectura.Filter) ([]lectura.Lectura, error) {
	var (
		where []string
		args  []any
	)
	if f.Pozo != "" {
		args = append(args, f.Pozo)
		where = append(where, fmt.Sprintf("pozo = $%d", len(args)))
	}
	if f.Periodo != "" {
		args = append(args, f.Periodo)
		where = append(where, fmt.Sprintf("periodo = $%d", len(args)))
	}
	if f.Capturador != 0 {
		args = append(args, f.Capturador)
		where = append(where, fmt.Sprintf("capturador = $%d", len(args)))
	}

	query := `SELECT id, pozo, lectura_volumetrica, lectura_electrica, gasto, observaciones,
                     fecha_captura, capturador, estado, periodo, created_at
              FROM lectura_pozos`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY fecha_captura DESC, id DESC LIMIT $%d", len(args))

	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lecturas: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (lectura.Lectura, error) {
		var l lectura.Lectura
		err := row.Scan(&l.ID, &l.Pozo, &l.LecturaVolumetrica, &l.LecturaElectrica, &l.Gasto,
			&l.Observaciones, &l.FechaCaptura, &l.Capturador, &l.Estado, &l.Periodo, &l.CreatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan lecturas: %w", err)
	}
	return items, nil
}

func (r *LecturaRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM lectura_pozos WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check lectura: %w", err)
	}
	return exists, nil
}

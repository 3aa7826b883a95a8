package postgres

import (
	"context"
	"errors"
	"fmt"
	"lecturapozos/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
	}
}

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (int, error) {
	var userID int
	err := r.db.Pool().QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username, email, passwordHash).Scan(&userID)
	if isUniqueViolation(err, "") {
		return 0, user.ErrAlreadyExists
	}
	return userID, err
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (user.User, error) {
	var u user.User
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users
         WHERE username = $1 OR email = lower($1)`, identifier).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}

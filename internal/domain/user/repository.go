package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, username, email, passwordHash string) (int, error)
	// FindByIdentifier ищет пользователя по имени или email
	FindByIdentifier(ctx context.Context, identifier string) (User, error)
}

package pozo

import "context"

type Repository interface {
	Create(ctx context.Context, p Pozo) (int, error)
	List(ctx context.Context) ([]Pozo, error)
}

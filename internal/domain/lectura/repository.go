package lectura

import "context"

type Repository interface {
	// Create сохраняет показание; нарушение уникальности (pozo, periodo) возвращает ErrDuplicate
	Create(ctx context.Context, l Lectura) (int, error)
	List(ctx context.Context, f Filter) ([]Lectura, error)
	Exists(ctx context.Context, id int) (bool, error)
}

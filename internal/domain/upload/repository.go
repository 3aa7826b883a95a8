package upload

import (
	"context"
	"io"
)

type Repository interface {
	Create(ctx context.Context, f File) (int, error)
	ListByRef(ctx context.Context, ref string, refID int) ([]File, error)
}

// BlobStore хранит содержимое файлов
type BlobStore interface {
	Save(name string, r io.Reader) (int64, error)
	Remove(name string) error
}

// RefChecker проверяет существование записи, к которой привязывается файл
type RefChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

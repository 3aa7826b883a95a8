package pozo

import "errors"

var (
	ErrInvalidData   = errors.New("некорректные данные скважины")
	ErrAlreadyExists = errors.New("скважина с таким именем уже есть")
)

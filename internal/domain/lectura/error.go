package lectura

import "errors"

var (
	ErrInvalidData = errors.New("некорректное показание")
	ErrDuplicate   = errors.New("для этой скважины уже есть показание за период")
	ErrNotFound    = errors.New("показание не найдено")
)

package upload

import "errors"

var (
	ErrInvalidTarget    = errors.New("неизвестная цель загрузки")
	ErrRefNotFound      = errors.New("запись для привязки файла не найдена")
	ErrUnsupportedMedia = errors.New("допускаются только изображения")
	ErrEmptyFile        = errors.New("пустой файл")
)

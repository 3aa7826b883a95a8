package user

import "errors"

var (
	ErrNotFound      = errors.New("пользователь не найден")
	ErrInvalidAuth   = errors.New("неверный логин или пароль")
	ErrInvalidInput  = errors.New("некорректные данные")
	ErrAlreadyExists = errors.New("пользователь уже существует")
)

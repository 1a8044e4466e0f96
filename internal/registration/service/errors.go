package service

import (
	"errors"
	"fmt"
)

// ============================================================
// Registration Errors
// ============================================================

var (
	ErrDuplicateLogin   = errors.New("логин уже занят")
	ErrInvalidEmail     = errors.New("неверный формат email")
	ErrPasswordMismatch = errors.New("пароли не совпадают")
	ErrMissingAvatar    = errors.New("файл аватара обязателен")
)

// StorageError — отказ хранилища при сохранении. Detail доносится до
// вызывающего как есть, не маскируется.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ошибка при сохранении: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

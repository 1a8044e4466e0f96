package handlers

import (
	"errors"
	"fmt"

	"github.com/KUZURAKI/LVL-23/internal/registration/service"
	"github.com/KUZURAKI/LVL-23/internal/registration/validator"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// ============================================================
// Outcome Mapping
// ============================================================

// webMessage переводит ошибку регистрации в текст для HTML-формы.
func webMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateLogin):
		return "Этот логин уже занят!"
	case errors.Is(err, service.ErrInvalidEmail):
		return "Неверный формат email!"
	case errors.Is(err, service.ErrPasswordMismatch):
		return "Пароли не совпадают!"
	case errors.Is(err, service.ErrMissingAvatar):
		return "Файл аватара обязателен!"
	default:
		return apiMessage(err)
	}
}

// apiMessage переводит ошибку регистрации в текст для JSON-ответа.
func apiMessage(err error) string {
	var storageErr *service.StorageError
	switch {
	case errors.Is(err, service.ErrDuplicateLogin):
		return "Этот логин уже занят"
	case errors.Is(err, service.ErrInvalidEmail):
		return "Неверный формат email"
	case errors.Is(err, service.ErrPasswordMismatch):
		return "Пароли не совпадают"
	case errors.Is(err, service.ErrMissingAvatar):
		return "Файл аватара обязателен"
	case errors.Is(err, validator.ErrUnsupportedMediaType):
		return "Недопустимый тип файла. Разрешены только JPEG, PNG, GIF."
	case errors.Is(err, validator.ErrPayloadTooLarge):
		return "Файл слишком большой. Максимальный размер: 2MB."
	case errors.As(err, &storageErr):
		return fmt.Sprintf("Ошибка при сохранении: %v", storageErr.Err)
	default:
		return "Ошибка при регистрации"
	}
}

// outcomeKind — ключ исхода для диагностических событий.
func outcomeKind(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateLogin):
		return "duplicate_login"
	case errors.Is(err, service.ErrInvalidEmail):
		return "invalid_email"
	case errors.Is(err, service.ErrPasswordMismatch):
		return "password_mismatch"
	case errors.Is(err, service.ErrMissingAvatar):
		return "missing_avatar"
	case errors.Is(err, validator.ErrUnsupportedMediaType):
		return "unsupported_media_type"
	case errors.Is(err, validator.ErrPayloadTooLarge):
		return "payload_too_large"
	default:
		return "storage_error"
	}
}

func logOutcome(c fiber.Ctx, login string, err error) {
	kind := outcomeKind(err)
	evt := log.Warn()
	if kind == "storage_error" {
		evt = log.Error().Err(err)
	}
	evt.
		Str("request_id", requestID(c)).
		Str("login", login).
		Str("outcome", kind).
		Msg("registration rejected")
}

func requestID(c fiber.Ctx) string {
	if id, ok := c.Locals("request_id").(string); ok {
		return id
	}
	return ""
}

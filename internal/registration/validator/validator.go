package validator

import (
	"errors"
	"regexp"
)

// ============================================================
// Input Validation
// ============================================================

var (
	ErrUnsupportedMediaType = errors.New("недопустимый тип файла")
	ErrPayloadTooLarge      = errors.New("файл слишком большой")
)

// MaxAvatarSize — предел размера аватара в байтах (2 MiB).
const MaxAvatarSize = 2 * 1024 * 1024

// Шаблон закреплён с обеих сторон: хвостовой мусор после домена не проходит.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidEmail проверяет формат email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateAvatar проверяет mimetype и размер файла аватара.
// Тип проверяется раньше размера.
func ValidateAvatar(mimeType string, size int64) error {
	if !allowedAvatarTypes[mimeType] {
		return ErrUnsupportedMediaType
	}
	if size > MaxAvatarSize {
		return ErrPayloadTooLarge
	}
	return nil
}

// PasswordsMatch сравнивает пароль и его подтверждение.
func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}

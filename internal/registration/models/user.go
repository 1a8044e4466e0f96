package models

import "io"

// ============================================================
// User Model
// ============================================================

// User — строка таблицы users.
type User struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Password string `json:"-"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	About    string `json:"about"`
	Avatar   []byte `json:"-"`
}

// UserSummary — проекция для списка пользователей: без пароля и аватара.
type UserSummary struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	About    string `json:"about"`
}

// Profile — публичные поля пользователя, возвращаемые после регистрации.
type Profile struct {
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	About    string `json:"about"`
}

// ============================================================
// Registration Input
// ============================================================

// AvatarUpload описывает загруженный файл аватара. Содержимое читается
// только на этапе сохранения, после проверки типа и размера.
type AvatarUpload struct {
	MimeType string
	Size     int64
	Content  io.Reader
}

// RegistrationInput — сырые поля одной заявки на регистрацию.
type RegistrationInput struct {
	Login           string
	Password        string
	ConfirmPassword string
	FullName        string
	Email           string
	Phone           string
	About           string
	Avatar          *AvatarUpload
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/KUZURAKI/LVL-23/internal/registration/models"
	"github.com/KUZURAKI/LVL-23/internal/registration/repository"
	"github.com/KUZURAKI/LVL-23/internal/registration/validator"
)

// ============================================================
// Registration Service
// ============================================================

// UserStore — хранилище пользователей, нужное сервису регистрации.
type UserStore interface {
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (int64, error)
	ListAll(ctx context.Context) ([]models.UserSummary, error)
}

type Service struct {
	store UserStore
}

func New(store UserStore) *Service {
	return &Service{store: store}
}

// Register проводит одну заявку через фиксированную цепочку проверок и
// сохраняет пользователя. Порядок проверок значим: занятость логина,
// формат email, совпадение паролей, наличие аватара, его тип и размер.
// Первая неудавшаяся проверка завершает вызов.
func (s *Service) Register(ctx context.Context, input models.RegistrationInput) (*models.Profile, error) {
	_, err := s.store.FindByLogin(ctx, input.Login)
	if err == nil {
		return nil, ErrDuplicateLogin
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, &StorageError{Err: err}
	}

	if !validator.ValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}

	if !validator.PasswordsMatch(input.Password, input.ConfirmPassword) {
		return nil, ErrPasswordMismatch
	}

	if input.Avatar == nil {
		return nil, ErrMissingAvatar
	}

	if err := validator.ValidateAvatar(input.Avatar.MimeType, input.Avatar.Size); err != nil {
		return nil, err
	}

	avatarData, err := io.ReadAll(input.Avatar.Content)
	if err != nil {
		return nil, &StorageError{Err: fmt.Errorf("чтение аватара: %w", err)}
	}

	u := &models.User{
		Login:    input.Login,
		Password: input.Password,
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		About:    input.About,
		Avatar:   avatarData,
	}

	if _, err := s.store.Insert(ctx, u); err != nil {
		// Два конкурентных запроса с одним логином могут оба пройти
		// проверку занятости; уникальный индекс ловит второго.
		if errors.Is(err, repository.ErrLoginExists) {
			return nil, ErrDuplicateLogin
		}
		return nil, &StorageError{Err: err}
	}

	return &models.Profile{
		Login:    u.Login,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		About:    u.About,
	}, nil
}

// ListUsers возвращает всех зарегистрированных пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	return s.store.ListAll(ctx)
}

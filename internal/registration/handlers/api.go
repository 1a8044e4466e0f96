package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/KUZURAKI/LVL-23/internal/registration/service"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// ============================================================
// JSON API
// ============================================================

type registerRequest struct {
	Login           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	FullName        string `validate:"required"`
	Email           string `validate:"required"`
	Phone           string `validate:"required"`
	About           string `validate:"required"`
}

// RegisterAPI принимает ту же multipart-форму, что и HTML-страница,
// но отвечает JSON-конвертом: 201 при успехе, 400 при ошибке валидации,
// 500 при отказе хранилища.
func (h *RegistrationHandler) RegisterAPI(c fiber.Ctx) error {
	input, cleanup := formInput(c)
	defer cleanup()

	req := registerRequest{
		Login:           input.Login,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		FullName:        input.FullName,
		Email:           input.Email,
		Phone:           input.Phone,
		About:           input.About,
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn().
			Str("request_id", requestID(c)).
			Str("login", input.Login).
			Str("outcome", "missing_required_field").
			Msg("registration rejected")
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Все обязательные поля должны быть заполнены",
		})
	}

	profile, err := h.svc.Register(context.Background(), input)
	if err != nil {
		logOutcome(c, input.Login, err)

		var storageErr *service.StorageError
		if errors.As(err, &storageErr) {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": apiMessage(err),
			})
		}
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": apiMessage(err),
		})
	}

	log.Info().
		Str("request_id", requestID(c)).
		Str("login", input.Login).
		Str("outcome", "registered").
		Msg("user registered")

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Пользователь успешно зарегистрирован",
		"data":    profile,
	})
}

package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/KUZURAKI/LVL-23/internal/registration/models"
	"github.com/KUZURAKI/LVL-23/internal/registration/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// ============================================================
// Registration Handler
// ============================================================

type RegistrationHandler struct {
	svc      *service.Service
	tmpl     *template.Template
	validate *validator.Validate
}

func NewRegistrationHandler(svc *service.Service, tmpl *template.Template) *RegistrationHandler {
	return &RegistrationHandler{
		svc:      svc,
		tmpl:     tmpl,
		validate: validator.New(),
	}
}

type indexData struct {
	Users []models.UserSummary
}

// Index отдаёт страницу со списком пользователей и формой регистрации.
func (h *RegistrationHandler) Index(c fiber.Ctx) error {
	return h.renderIndex(c)
}

// RegisterForm принимает заявку из HTML-формы. При отказе возвращает
// текст сообщения, при успехе — ту же страницу со списком.
func (h *RegistrationHandler) RegisterForm(c fiber.Ctx) error {
	input, cleanup := formInput(c)
	defer cleanup()

	_, err := h.svc.Register(context.Background(), input)
	if err != nil {
		logOutcome(c, input.Login, err)
		return c.SendString(webMessage(err))
	}

	log.Info().
		Str("request_id", requestID(c)).
		Str("login", input.Login).
		Str("outcome", "registered").
		Msg("user registered")

	return h.renderIndex(c)
}

func (h *RegistrationHandler) renderIndex(c fiber.Ctx) error {
	users, err := h.svc.ListUsers(context.Background())
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID(c)).Msg("failed to list users")
		return c.Status(http.StatusInternalServerError).SendString("Ошибка при загрузке списка пользователей")
	}

	buf := &bytes.Buffer{}
	if err := h.tmpl.ExecuteTemplate(buf, "index.html", indexData{Users: users}); err != nil {
		log.Error().Err(err).Str("request_id", requestID(c)).Msg("failed to render index template")
		return c.Status(http.StatusInternalServerError).SendString("Ошибка при отображении страницы")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// formInput собирает RegistrationInput из multipart-формы.
// Отсутствующий файл аватара оставляет поле Avatar пустым: его
// обязательность проверяет сервис на своём шаге.
func formInput(c fiber.Ctx) (models.RegistrationInput, func()) {
	input := models.RegistrationInput{
		Login:           c.FormValue("login"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
		FullName:        c.FormValue("full_name"),
		Email:           c.FormValue("email"),
		Phone:           c.FormValue("phone"),
		About:           c.FormValue("about"),
	}

	noop := func() {}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return input, noop
	}

	file, err := fileHeader.Open()
	if err != nil {
		return input, noop
	}

	input.Avatar = &models.AvatarUpload{
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Content:  file,
	}
	return input, func() { file.Close() }
}

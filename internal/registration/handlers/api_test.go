package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/KUZURAKI/LVL-23/internal/registration/handlers"
	"github.com/KUZURAKI/LVL-23/internal/registration/repository"
	"github.com/KUZURAKI/LVL-23/internal/registration/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(t.Context()))

	tmpl, err := template.ParseFiles(filepath.Join("..", "..", "..", "web", "templates", "index.html"))
	require.NoError(t, err)

	handler := handlers.NewRegistrationHandler(service.New(repo), tmpl)

	app := fiber.New()
	app.Get("/", handler.Index)
	app.Post("/", handler.RegisterForm)
	app.Post("/api/users", handler.RegisterAPI)
	return app
}

func defaultFields() map[string]string {
	return map[string]string{
		"login":            "ivanov",
		"password":         "secret",
		"confirm_password": "secret",
		"full_name":        "Иванов Иван Иванович",
		"email":            "ivanov@example.com",
		"phone":            "+79990000000",
		"about":            "обо мне",
	}
}

func registrationBody(t *testing.T, fields map[string]string, avatarType string, avatarContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	if avatarType != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.img"`)
		header.Set("Content-Type", avatarType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(avatarContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func postRegistration(t *testing.T, app *fiber.App, path string, fields map[string]string, avatarType string, avatarContent []byte) *http.Response {
	t.Helper()

	body, contentType := registrationBody(t, fields, avatarType, avatarContent)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	return resp
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Login    string `json:"login"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		About    string `json:"about"`
	} `json:"data"`
}

func decodeAPI(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()
	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPIRegisterSuccess(t *testing.T) {
	app := newTestApp(t)

	resp := postRegistration(t, app, "/api/users", defaultFields(), "image/jpeg", []byte{0xFF, 0xD8, 0xFF})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeAPI(t, resp)
	require.Equal(t, "success", out.Status)
	require.Equal(t, "Пользователь успешно зарегистрирован", out.Message)
	require.Equal(t, "ivanov", out.Data.Login)
	require.Equal(t, "Иванов Иван Иванович", out.Data.FullName)
	require.Equal(t, "ivanov@example.com", out.Data.Email)
}

func TestAPIRegisterMissingRequiredField(t *testing.T) {
	app := newTestApp(t)

	fields := defaultFields()
	delete(fields, "about")

	resp := postRegistration(t, app, "/api/users", fields, "image/jpeg", []byte{0xFF})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeAPI(t, resp)
	require.Equal(t, "error", out.Status)
	require.Equal(t, "Все обязательные поля должны быть заполнены", out.Message)
}

func TestAPIRegisterDuplicateLogin(t *testing.T) {
	app := newTestApp(t)

	resp := postRegistration(t, app, "/api/users", defaultFields(), "image/jpeg", []byte{0xFF})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postRegistration(t, app, "/api/users", defaultFields(), "image/jpeg", []byte{0xFF})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Этот логин уже занят", decodeAPI(t, resp).Message)
}

func TestAPIRegisterInvalidEmail(t *testing.T) {
	app := newTestApp(t)

	fields := defaultFields()
	fields["email"] = "not-an-email"

	resp := postRegistration(t, app, "/api/users", fields, "image/jpeg", []byte{0xFF})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Неверный формат email", decodeAPI(t, resp).Message)
}

func TestAPIRegisterPasswordMismatch(t *testing.T) {
	app := newTestApp(t)

	fields := defaultFields()
	fields["confirm_password"] = "другой"

	resp := postRegistration(t, app, "/api/users", fields, "image/jpeg", []byte{0xFF})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Пароли не совпадают", decodeAPI(t, resp).Message)
}

func TestAPIRegisterMissingAvatar(t *testing.T) {
	app := newTestApp(t)

	resp := postRegistration(t, app, "/api/users", defaultFields(), "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Файл аватара обязателен", decodeAPI(t, resp).Message)
}

func TestAPIRegisterUnsupportedMediaType(t *testing.T) {
	app := newTestApp(t)

	resp := postRegistration(t, app, "/api/users", defaultFields(), "application/pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Недопустимый тип файла. Разрешены только JPEG, PNG, GIF.", decodeAPI(t, resp).Message)
}

func TestAPIRegisterPayloadTooLarge(t *testing.T) {
	app := newTestApp(t)

	resp := postRegistration(t, app, "/api/users", defaultFields(), "image/jpeg", bytes.Repeat([]byte{0xFF}, 3*1024*1024))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Файл слишком большой. Максимальный размер: 2MB.", decodeAPI(t, resp).Message)
}

func TestFormRegisterSuccessRendersList(t *testing.T) {
	app := newTestApp(t)

	resp := postRegistration(t, app, "/", defaultFields(), "image/png", []byte{0x89, 0x50})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(page), "ivanov")
	require.Contains(t, string(page), "Иванов Иван Иванович")
}

func TestFormRegisterFailureReturnsMessage(t *testing.T) {
	app := newTestApp(t)

	fields := defaultFields()
	fields["confirm_password"] = "другой"

	resp := postRegistration(t, app, "/", fields, "image/png", []byte{0x89})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "Пароли не совпадают!", string(body))
}

func TestIndexListsUsersInOrder(t *testing.T) {
	app := newTestApp(t)

	first := defaultFields()
	resp := postRegistration(t, app, "/api/users", first, "image/jpeg", []byte{0xFF})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	second := defaultFields()
	second["login"] = "petrov"
	resp = postRegistration(t, app, "/api/users", second, "image/jpeg", []byte{0xFF})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	ivanov := bytes.Index(page, []byte("ivanov"))
	petrov := bytes.Index(page, []byte("petrov"))
	require.GreaterOrEqual(t, ivanov, 0)
	require.GreaterOrEqual(t, petrov, 0)
	require.Less(t, ivanov, petrov, fmt.Sprintf("ivanov должен идти раньше petrov: %d > %d", ivanov, petrov))
}

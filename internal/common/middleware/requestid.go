package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ============================================================
// Request ID Middleware
// ============================================================

// RequestID присваивает каждому запросу идентификатор для сквозной
// диагностики. Пришедший X-Request-ID сохраняется, иначе генерируется новый.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("request_id", id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

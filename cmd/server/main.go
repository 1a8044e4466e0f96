package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"github.com/KUZURAKI/LVL-23/internal/common/config"
	"github.com/KUZURAKI/LVL-23/internal/common/middleware"
	"github.com/KUZURAKI/LVL-23/internal/registration/handlers"
	"github.com/KUZURAKI/LVL-23/internal/registration/repository"
	"github.com/KUZURAKI/LVL-23/internal/registration/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Registration Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	tmpl, err := template.ParseGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	if err != nil {
		log.Fatalf("parse templates: %v", err)
	}

	svc := service.New(repo)
	handler := handlers.NewRegistrationHandler(svc, tmpl)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Registration Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())
	app.Use(middleware.RequestID())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(503).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Registration Routes
	// ============================================================

	app.Get("/", handler.Index)
	app.Post("/", handler.RegisterForm)
	app.Post("/api/users", handler.RegisterAPI)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Registration Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

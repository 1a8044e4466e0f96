package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KUZURAKI/LVL-23/internal/registration/models"

	"github.com/ncruces/go-sqlite3"
)

// ============================================================
// SQLite Repository
// ============================================================

var (
	ErrNotFound    = errors.New("пользователь не найден")
	ErrLoginExists = errors.New("логин уже занят")
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    login     TEXT NOT NULL UNIQUE,
    password  TEXT NOT NULL,
    full_name TEXT NOT NULL,
    email     TEXT NOT NULL,
    phone     TEXT NOT NULL,
    about     TEXT NOT NULL,
    avatar    BLOB
)`

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init создает таблицу users, если её ещё нет. Повторный вызов безопасен.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// FindByLogin ищет пользователя по логину.
func (r *Repository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, login, password, full_name, email, phone, about, avatar
        FROM users
        WHERE login = ?
    `, login)

	var u models.User
	if err := row.Scan(&u.ID, &u.Login, &u.Password, &u.FullName, &u.Email, &u.Phone, &u.About, &u.Avatar); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Insert сохраняет нового пользователя и возвращает присвоенный id.
// Нарушение уникальности логина превращается в ErrLoginExists.
func (r *Repository) Insert(ctx context.Context, u *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO users (login, password, full_name, email, phone, about, avatar)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        RETURNING id
    `, u.Login, u.Password, u.FullName, u.Email, u.Phone, u.About, u.Avatar).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrLoginExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// ListAll возвращает всех пользователей в порядке вставки.
// Пароль и аватар в выборку не входят.
func (r *Repository) ListAll(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, login, full_name, email, phone, about
        FROM users
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Login, &u.FullName, &u.Email, &u.Phone, &u.About); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode() == sqlite3.CONSTRAINT_UNIQUE
	}
	return false
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

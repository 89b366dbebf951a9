package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/models"
	"github.com/notamente/backend/internal/uuid"
)

// CreateUser inserts a new user. The email column carries a NOCASE unique
// index, which backstops the check-then-insert done by the auth service.
func (r *Repository) CreateUser(user *models.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().Unix()

	query := `
	INSERT INTO users (id, name, email, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperr.Conflict("email already registered")
		}
		return apperr.Internal(err)
	}
	return nil
}

// GetUser retrieves a user by id.
func (r *Repository) GetUser(id string) (*models.User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var user models.User
	err = stmt.QueryRow(id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var user models.User
	err = stmt.QueryRow(email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

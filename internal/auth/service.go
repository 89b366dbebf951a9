package auth

import (
	"net/mail"
	"unicode/utf8"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/db"
	"github.com/notamente/backend/internal/models"
)

// Service is the credential service: registration and login against the
// user store. Password hashes never leave this package.
type Service struct {
	repo   *db.Repository
	hasher *Hasher
	tokens *TokenService
}

// NewService creates the credential service.
func NewService(repo *db.Repository, hasher *Hasher, tokens *TokenService) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a new user. The email uniqueness lookup races with the
// insert; the NOCASE unique index on users.email is the backstop, surfacing
// the same conflict error.
func (s *Service) Register(name, email, password string) (*models.User, error) {
	if utf8.RuneCountInString(name) < 2 {
		return nil, apperr.Validation("name must be at least 2 characters")
	}
	if !validEmail(email) {
		return nil, apperr.Validation("invalid email address")
	}
	if len(password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !apperr.Is(err, apperr.CodeNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password fail with the identical error so callers cannot tell which
// part was wrong.
func (s *Service) Login(email, password string) (string, *models.User, error) {
	invalid := apperr.Auth("invalid credentials")

	user, err := s.repo.GetUserByEmail(email)
	if apperr.Is(err, apperr.CodeNotFound) {
		return "", nil, invalid
	}
	if err != nil {
		return "", nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", nil, invalid
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}
	return token, user, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TECH-SIGN/OrderEase-sub000/internal/infrastructure/store"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles user accounts. It sits outside the checkout core: its only
// job is producing the authenticated userId the core consumes.
type Service struct {
	db  store.DB
	jwt *JWTService
}

func NewService(db store.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, email, password string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return store.User{}, ErrInvalidEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return store.User{}, err
	}

	u := store.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.InsertUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return store.User{}, ErrEmailTaken
		}
		return store.User{}, err
	}
	return u, nil
}

// Login checks the credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.db.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", time.Time{}, err
	}
	if !CheckPassword(password, u.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(u.ID, u.Email, u.Role)
}

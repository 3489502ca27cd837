package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	domain "usermgmt/backend/internal/domain/user"
)

const minPasswordLength = 6

// Service coordinates registration and login between domain and infrastructure.
type Service struct {
	users   domain.Repository
	tokens  TokenManager
	hasher  PasswordHasher
	nowFunc func() time.Time
}

// NewService constructs an auth service.
func NewService(users domain.Repository, tokens TokenManager, hasher PasswordHasher) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		nowFunc: time.Now,
	}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// Register creates a new user and issues a token for it. Validation failures
// return a ValidationError with per-field messages before any store access.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)

	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "Name is required")
	}
	if !validEmail(email) {
		verr.Add("email", "Valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		verr.Add("password", "Password must be at least 6 characters")
	}
	if input.Age < 0 || input.Age > 150 {
		verr.Add("age", "Age must be between 0 and 150")
	}
	if verr.HasErrors() {
		return nil, "", verr
	}

	// Friendlier pre-check; the store's unique constraint stays authoritative.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Age:          input.Age,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return sanitizeUser(user), token, nil
}

// Login validates credentials and returns the user plus a fresh token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)

	verr := &domain.ValidationError{}
	if !validEmail(email) {
		verr.Add("email", "Valid email is required")
	}
	if password == "" {
		verr.Add("password", "Password is required")
	}
	if verr.HasErrors() {
		return nil, "", verr
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return sanitizeUser(user), token, nil
}

// Profile re-resolves the caller against current store state. A token may
// outlive its account, so a missing user surfaces as ErrUserNotFound.
func (s *Service) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	return &copy
}

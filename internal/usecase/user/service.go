package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	domain "usermgmt/backend/internal/domain/user"
)

const minPasswordLength = 6

// PasswordHasher abstracts credential hashing for password changes and
// account-deletion re-proof.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Service provides profile management use cases for authenticated callers.
type Service struct {
	users   domain.Repository
	hasher  PasswordHasher
	nowFunc func() time.Time
}

// NewService constructs a profile service around the provided repository.
func NewService(users domain.Repository, hasher PasswordHasher) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		nowFunc: time.Now,
	}
}

// UpdateInput defines the sparse payload to update a profile. Nil pointer
// fields were absent from the request. A password change requires both
// CurrentPassword and NewPassword.
type UpdateInput struct {
	Name            *string
	Email           *string
	Age             *int
	CurrentPassword string
	NewPassword     string
}

// List returns all users ordered by id ascending, without password hashes.
func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return sanitizeUsers(users), nil
}

// Get retrieves a single user by its identifier.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// UpdateProfile applies a partial update to the caller's own record. All
// staged changes are applied in one atomic store update; an empty effective
// patch is rejected rather than performing a no-op write.
func (s *Service) UpdateProfile(ctx context.Context, callerID int64, input UpdateInput) (*domain.User, error) {
	current, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	var patch domain.Patch

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "Name must not be empty")
		}
		patch.Name = &name
	}

	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if !validEmail(email) {
			return nil, domain.NewValidationError("email", "Valid email is required")
		}
		if email != current.Email {
			// Collision against any other user; the store constraint still
			// backstops concurrent writers.
			if other, err := s.users.GetByEmail(ctx, email); err == nil && other.ID != callerID {
				return nil, domain.ErrEmailExists
			} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			patch.Email = &email
		}
	}

	if input.Age != nil {
		if *input.Age < 0 || *input.Age > 150 {
			return nil, domain.NewValidationError("age", "Age must be between 0 and 150")
		}
		patch.Age = input.Age
	}

	if input.NewPassword != "" {
		if input.CurrentPassword == "" {
			return nil, domain.NewValidationError("currentPassword", "Current password is required to change password")
		}
		if len(input.NewPassword) < minPasswordLength {
			return nil, domain.NewValidationError("newPassword", "Password must be at least 6 characters")
		}
		if !s.hasher.Verify(input.CurrentPassword, current.PasswordHash) {
			return nil, domain.ErrWrongPassword
		}
		hashed, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hashed
	}

	if patch.IsEmpty() {
		return nil, domain.NewValidationError("fields", "No fields to update")
	}

	updated, err := s.users.Update(ctx, callerID, patch)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(updated), nil
}

// DeleteAccount removes the caller's record after re-proof of the password.
// The deleted identity is returned as confirmation.
func (s *Service) DeleteAccount(ctx context.Context, callerID int64, password string) (domain.Identity, error) {
	if password == "" {
		return domain.Identity{}, domain.NewValidationError("password", "Password is required to delete account")
	}

	current, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return domain.Identity{}, err
	}

	if !s.hasher.Verify(password, current.PasswordHash) {
		return domain.Identity{}, domain.ErrWrongPassword
	}

	deleted, err := s.users.Delete(ctx, callerID)
	if err != nil {
		return domain.Identity{}, err
	}
	return deleted.Identity(), nil
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

func sanitizeUsers(users []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitizeUser(u))
	}
	return out
}

// Package memstore provides a process-local user repository. It implements
// the same contract as the PostgreSQL repository, differing only in
// persistence: records live in a mutex-guarded map and vanish on restart.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "usermgmt/backend/internal/domain/user"
)

// UserRepository keeps users in memory, keyed by id, with email uniqueness
// enforced under the lock.
type UserRepository struct {
	mu      sync.Mutex
	users   map[int64]*domain.User
	byEmail map[string]int64
	nextID  int64
	nowFunc func() time.Time
}

// NewUserRepository constructs an empty in-memory repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
		nextID:  1,
		nowFunc: time.Now,
	}
}

var _ domain.Repository = (*UserRepository)(nil)

// Create inserts a new user, assigning the next id.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailExists
	}

	user.ID = r.nextID
	r.nextID++

	stored := *user
	r.users[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return nil
}

// GetByEmail fetches a user by its lowercased email.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := *r.users[id]
	return &copy, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

// List returns all users ordered by id ascending.
func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		copy := *u
		users = append(users, &copy)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Update applies a sparse patch atomically under the lock.
func (r *UserRepository) Update(_ context.Context, id int64, patch domain.Patch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	if patch.Email != nil && *patch.Email != u.Email {
		if _, exists := r.byEmail[*patch.Email]; exists {
			return nil, domain.ErrEmailExists
		}
		delete(r.byEmail, u.Email)
		r.byEmail[*patch.Email] = id
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Age != nil {
		u.Age = *patch.Age
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	u.UpdatedAt = r.nowFunc().UTC()

	copy := *u
	return &copy, nil
}

// Delete removes a user by id, returning the deleted record.
func (r *UserRepository) Delete(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.byEmail, u.Email)
	return u, nil
}

package memstore

import (
	"context"
	"testing"
	"time"

	domain "usermgmt/backend/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(name, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Age:          30,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	a := newUser("Alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, a))
	b := newUser("Bob", "bob@example.com")
	require.NoError(t, repo.Create(ctx, b))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("Alice", "alice@example.com")))
	err := repo.Create(ctx, newUser("Other", "alice@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestGet(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	u := newUser("Alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestList_OrderedByID(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		require.NoError(t, repo.Create(ctx, newUser("u", email)))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(2), users[1].ID)
	assert.Equal(t, int64(3), users[2].ID)
}

func TestUpdate_PartialPatch(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	u := newUser("Alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))
	before, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)

	age := 44
	updated, err := repo.Update(ctx, u.ID, domain.Patch{Age: &age})
	require.NoError(t, err)

	assert.Equal(t, 44, updated.Age)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt) || updated.UpdatedAt.Equal(before.UpdatedAt))
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
}

func TestUpdate_EmailCollision(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	a := newUser("Alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, a))
	b := newUser("Bob", "bob@example.com")
	require.NoError(t, repo.Create(ctx, b))

	taken := "alice@example.com"
	_, err := repo.Update(ctx, b.ID, domain.Patch{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailExists)

	// The email index must still resolve both users.
	got, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	name := "X"
	_, err := repo.Update(context.Background(), 7, domain.Patch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	repo := NewUserRepository()
	ctx := context.Background()

	u := newUser("Alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, u))

	deleted, err := repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, deleted.ID)

	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

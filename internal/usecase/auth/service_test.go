package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domain "usermgmt/backend/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	CreateFunc     func(ctx context.Context, u *domain.User) error
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.User, error)

	createCalls int
	lookupCalls int
}

func (m *mockRepo) Create(ctx context.Context, u *domain.User) error {
	m.createCalls++
	return m.CreateFunc(ctx, u)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.lookupCalls++
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockRepo) List(ctx context.Context) ([]*domain.User, error) { return nil, nil }

func (m *mockRepo) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fakeHasher) Verify(plaintext, hash string) bool    { return hash == "hashed:"+plaintext }

type fakeTokens struct{}

func (fakeTokens) Issue(userID int64, email string) (string, error) {
	return fmt.Sprintf("token-%d", userID), nil
}

func (fakeTokens) Verify(token string) (TokenClaims, error) {
	return TokenClaims{}, domain.ErrTokenInvalid
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		CreateFunc: func(ctx context.Context, u *domain.User) error {
			u.ID = 1
			return nil
		},
	}
	svc := NewService(repo, fakeTokens{}, fakeHasher{})

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  John Doe ",
		Email:    "JOHN@Example.com",
		Password: "secret1",
		Age:      30,
	})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", user.Name)
	assert.Equal(t, "john@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "token-1", token)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegister_ValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  RegisterInput
		fields []string
	}{
		{
			name:   "empty name",
			input:  RegisterInput{Name: "  ", Email: "a@example.com", Password: "secret1", Age: 30},
			fields: []string{"name"},
		},
		{
			name:   "malformed email",
			input:  RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1", Age: 30},
			fields: []string{"email"},
		},
		{
			name:   "short password",
			input:  RegisterInput{Name: "A", Email: "a@example.com", Password: "short", Age: 30},
			fields: []string{"password"},
		},
		{
			name:   "age out of range",
			input:  RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1", Age: 200},
			fields: []string{"age"},
		},
		{
			name:   "everything wrong",
			input:  RegisterInput{Name: "", Email: "", Password: "", Age: -1},
			fields: []string{"name", "email", "password", "age"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockRepo{}
			svc := NewService(repo, fakeTokens{}, fakeHasher{})

			_, _, err := svc.Register(context.Background(), tt.input)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)

			// Validation failures must not touch the store.
			assert.Zero(t, repo.lookupCalls)
			assert.Zero(t, repo.createCalls)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: 1, Email: email}, nil
		},
	}
	svc := NewService(repo, fakeTokens{}, fakeHasher{})

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "John",
		Email:    "john@example.com",
		Password: "secret1",
		Age:      30,
	})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
	assert.Zero(t, repo.createCalls)
}

func TestLogin_NonEnumerable(t *testing.T) {
	t.Parallel()

	stored := &domain.User{
		ID:           1,
		Email:        "john@example.com",
		PasswordHash: "hashed:secret1",
	}
	repo := &mockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	svc := NewService(repo, fakeTokens{}, fakeHasher{})

	_, _, errUnknown := svc.Login(context.Background(), "ghost@example.com", "whatever")
	_, _, errWrong := svc.Login(context.Background(), "john@example.com", "wrong")

	// Unknown email and wrong password must be indistinguishable.
	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	stored := &domain.User{
		ID:           7,
		Name:         "John",
		Email:        "john@example.com",
		PasswordHash: "hashed:secret1",
	}
	repo := &mockRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return stored, nil
		},
	}
	svc := NewService(repo, fakeTokens{}, fakeHasher{})

	user, token, err := svc.Login(context.Background(), "JOHN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "token-7", token)
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockRepo{}, fakeTokens{}, fakeHasher{})

	_, _, err := svc.Login(context.Background(), "", "")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestProfile_DeletedAccount(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	svc := NewService(repo, fakeTokens{}, fakeHasher{})

	_, err := svc.Profile(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProfile_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	repo := &mockRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			return nil, boom
		},
	}
	svc := NewService(repo, fakeTokens{}, fakeHasher{})

	_, err := svc.Profile(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

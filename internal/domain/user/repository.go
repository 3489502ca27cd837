package user

import "context"

// Repository defines persistence operations for users. Implementations must
// enforce email uniqueness atomically; callers may pre-check for a friendlier
// message but the store constraint is authoritative.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, patch Patch) (*User, error)
	Delete(ctx context.Context, id int64) (*User, error)
}

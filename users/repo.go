package users

import "context"

// UserRepo stores intranet accounts. Lookups return errors.ErrNotFound for
// missing users and Create returns errors.ErrConflict for a taken email.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, patch Patch) (*User, error)
	SetPasswordHash(ctx context.Context, email, hash string) error
	SoftDelete(ctx context.Context, id string) error
}

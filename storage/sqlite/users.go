package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/vintegcorp/vintegcorp/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

const userColumns = `id, name, email, password_hash, role, position, department, avatar_url, is_active, created_at, updated_at, deleted_at`

type UserRepo struct {
	store *Store
}

func scanUser(row scanner) (*users.User, error) {
	var u users.User
	var deleted sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Position,
		&u.Department, &u.AvatarURL, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &deleted)
	if err != nil {
		return nil, err
	}
	if deleted.Valid {
		t := deleted.Time
		u.DeletedAt = &t
	}
	return &u, nil
}

// Create stores user, assigning its id and timestamps
func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	now := r.store.timestamp()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = users.RoleEmployee
	}
	user.Email = strings.ToLower(user.Email)
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, position, department, avatar_url, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role), user.Position,
		user.Department, user.AvatarURL, user.IsActive, user.CreatedAt, user.UpdatedAt)
	return mapError(err, "create user")
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, "get user")
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, "get user by email")
	}
	return u, nil
}

// List returns users that were not deleted, ordered by name
func (r *UserRepo) List(ctx context.Context) ([]*users.User, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY name ASC LIMIT 1000`)
	if err != nil {
		return nil, mapError(err, "list users")
	}
	defer rows.Close()

	out := []*users.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err, "scan user")
		}
		out = append(out, u)
	}
	return out, mapError(rows.Err(), "list users")
}

func (r *UserRepo) Update(ctx context.Context, id string, patch users.Patch) (*users.User, error) {
	var set updateSet
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Position != nil {
		set.add("position", *patch.Position)
	}
	if patch.Department != nil {
		set.add("department", *patch.Department)
	}
	if patch.AvatarURL != nil {
		set.add("avatar_url", *patch.AvatarURL)
	}
	if patch.Role != nil {
		set.add("role", string(*patch.Role))
	}
	set.add("updated_at", r.store.timestamp())

	res, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET `+set.clause()+` WHERE id = ? AND deleted_at IS NULL`,
		append(set.args, id)...)
	if err != nil {
		return nil, mapError(err, "update user")
	}
	if err := requireAffected(res, "update user"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) SetPasswordHash(ctx context.Context, email, hash string) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE email = ?`,
		hash, r.store.timestamp(), email)
	if err != nil {
		return mapError(err, "set password")
	}
	return requireAffected(res, "set password")
}

// SoftDelete deactivates the account and hides it from List
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	now := r.store.timestamp()
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = ?, is_active = 0, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
	if err != nil {
		return mapError(err, "delete user")
	}
	return requireAffected(res, "delete user")
}

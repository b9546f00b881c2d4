package users

import (
	"fmt"
	"net/url"
	"time"
)

// RoleType is the single role a user holds in the intranet
type RoleType string

const (
	RoleAdmin    RoleType = "ADMIN"    // Can manage users and delete shared content
	RoleEmployee RoleType = "EMPLOYEE" // Regular staff member
)

// DefaultPassword is given to accounts created by an admin without an explicit password
const DefaultPassword = "123456"

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never serialize
	Role         RoleType   `json:"role"`
	Position     string     `json:"position"`
	Department   string     `json:"department"`
	AvatarURL    string     `json:"avatar_url"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// Patch holds the profile fields a user update may change. Nil means unchanged.
type Patch struct {
	Name       *string
	Position   *string
	Department *string
	AvatarURL  *string
	Role       *RoleType
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DefaultAvatarURL builds a generated avatar for users who did not upload one
func DefaultAvatarURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}

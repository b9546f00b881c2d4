package fakeuserrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := ur.emailIds[email]; taken {
		return errors.ErrConflict
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	user.IsActive = true

	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, errors.ErrNotFound
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	stored, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	u := *stored
	return &u, nil
}

func (ur *FakeUserRepo) List(_ context.Context) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		if v.DeletedAt != nil {
			continue
		}
		u := *v
		userList = append(userList, &u)
	}
	sort.Slice(userList, func(i, j int) bool {
		return userList[i].Name < userList[j].Name
	})
	return userList, nil
}

func (ur *FakeUserRepo) Update(_ context.Context, id string, patch users.Patch) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	stored, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	if patch.Name != nil {
		stored.Name = *patch.Name
	}
	if patch.Position != nil {
		stored.Position = *patch.Position
	}
	if patch.Department != nil {
		stored.Department = *patch.Department
	}
	if patch.AvatarURL != nil {
		stored.AvatarURL = *patch.AvatarURL
	}
	if patch.Role != nil {
		stored.Role = *patch.Role
	}
	stored.UpdatedAt = time.Now().UTC()
	u := *stored
	return &u, nil
}

func (ur *FakeUserRepo) SetPasswordHash(_ context.Context, email, hash string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return errors.ErrNotFound
	}
	ur.users[id].PasswordHash = hash
	return nil
}

func (ur *FakeUserRepo) SoftDelete(_ context.Context, id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	stored, ok := ur.users[id]
	if !ok {
		return errors.ErrNotFound
	}
	now := time.Now().UTC()
	stored.DeletedAt = &now
	stored.IsActive = false
	return nil
}

// Len returns the number of stored users, deleted ones included
func (ur *FakeUserRepo) Len() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users)
}

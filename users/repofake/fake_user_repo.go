package repofake

import (
	"context"
	"sync"

	"github.com/informesapp/go-auth-core/internal/errors"
	"github.com/informesapp/go-auth-core/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users.Repo for tests.
type FakeUserRepo struct {
	byID    map[string]*users.User
	byEmail map[string]*users.User
	lock    sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byID:    make(map[string]*users.User),
		byEmail: make(map[string]*users.User),
	}
}

func (f *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.byEmail[user.Email]; ok {
		return errors.ErrEmailTaken
	}
	clone := *user
	f.byID[user.ID] = &clone
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	user, ok := f.byID[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// SetEmail rewrites a stored user's email directly, bypassing any
// uniqueness handling. Test helper only.
func (f *FakeUserRepo) SetEmail(id, email string) {
	f.lock.Lock()
	defer f.lock.Unlock()

	user, ok := f.byID[id]
	if !ok {
		return
	}
	delete(f.byEmail, user.Email)
	user.Email = email
	f.byEmail[email] = user
}

func (f *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	user, ok := f.byEmail[email]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

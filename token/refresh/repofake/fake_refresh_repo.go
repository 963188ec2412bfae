package repofake

import (
	"context"
	"sync"

	"github.com/informesapp/go-auth-core/internal/errors"
	"github.com/informesapp/go-auth-core/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshRepo)(nil)

// FakeRefreshRepo is an in-memory refresh.Repo for tests.
type FakeRefreshRepo struct {
	records map[string]*refresh.Record
	lock    sync.Mutex
}

func NewFakeRefreshRepo() *FakeRefreshRepo {
	return &FakeRefreshRepo{
		records: make(map[string]*refresh.Record),
	}
}

func (f *FakeRefreshRepo) Create(_ context.Context, rec *refresh.Record) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	clone := *rec
	f.records[rec.TokenID] = &clone
	return nil
}

func (f *FakeRefreshRepo) Get(_ context.Context, tokenID string) (*refresh.Record, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	rec, ok := f.records[tokenID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (f *FakeRefreshRepo) Revoke(_ context.Context, tokenID string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if rec, ok := f.records[tokenID]; ok {
		rec.Revoked = true
	}
	return nil
}

func (f *FakeRefreshRepo) Rotate(_ context.Context, oldTokenID string, next *refresh.Record) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	old, ok := f.records[oldTokenID]
	if !ok || old.Revoked {
		return errors.ErrRefreshReused
	}
	old.Revoked = true

	clone := *next
	f.records[next.TokenID] = &clone
	return nil
}

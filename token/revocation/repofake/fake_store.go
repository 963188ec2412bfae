package repofake

import (
	"context"
	"sync"

	"github.com/informesapp/go-auth-core/token/revocation"
)

var _ revocation.Store = (*FakeStore)(nil)

// FakeStore is an in-memory revocation.Store for tests.
type FakeStore struct {
	entries map[string]*revocation.Entry
	lock    sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		entries: make(map[string]*revocation.Entry),
	}
}

func (f *FakeStore) Add(_ context.Context, entry *revocation.Entry) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.entries[entry.TokenID]; ok {
		return nil
	}
	clone := *entry
	f.entries[entry.TokenID] = &clone
	return nil
}

func (f *FakeStore) Contains(_ context.Context, tokenID string) (bool, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	_, ok := f.entries[tokenID]
	return ok, nil
}

func (f *FakeStore) ListAll(_ context.Context) ([]string, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	ids := make([]string, 0, len(f.entries))
	for id := range f.entries {
		ids = append(ids, id)
	}
	return ids, nil
}

// Size returns the number of stored entries (test helper).
func (f *FakeStore) Size() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return len(f.entries)
}

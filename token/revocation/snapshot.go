// Package revocation implements the cross-service revocation registry:
// an authoritative, append-only log of revoked token ids owned by the
// issuing service, replicated by polling into dependent services as a
// process-local snapshot for round-trip-free validation.
package revocation

import (
	"context"
	"sync/atomic"
)

type idSet map[string]struct{}

// Snapshot is a read-mostly set of revoked token ids owned by a
// dependent service. The sync loop replaces it wholesale; validators
// read it without ever blocking on a replacement in progress. It
// implements token.RevocationSource.
type Snapshot struct {
	set atomic.Value // holds idSet
}

func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.set.Store(idSet{})
	return s
}

// IsRevoked reports membership in the current snapshot. It never blocks
// and never returns an error; a cold snapshot simply answers false.
func (s *Snapshot) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.Contains(tokenID), nil
}

// Contains reports membership in the current snapshot.
func (s *Snapshot) Contains(tokenID string) bool {
	set := s.set.Load().(idSet)
	_, ok := set[tokenID]
	return ok
}

// Replace swaps in a new snapshot built from tokenIDs. It is a pure
// replacement, not a merge: an id revoked and later purged upstream
// disappears locally on the next replace.
func (s *Snapshot) Replace(tokenIDs []string) {
	set := make(idSet, len(tokenIDs))
	for _, id := range tokenIDs {
		set[id] = struct{}{}
	}
	s.set.Store(set)
}

// Len returns the size of the current snapshot.
func (s *Snapshot) Len() int {
	return len(s.set.Load().(idSet))
}

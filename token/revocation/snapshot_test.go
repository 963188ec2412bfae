package revocation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/informesapp/go-auth-core/token/revocation"
)

func TestSnapshotColdStartIsEmpty(t *testing.T) {
	s := revocation.NewSnapshot()

	require.Equal(t, 0, s.Len())
	require.False(t, s.Contains("anything"))

	revoked, err := s.IsRevoked(context.Background(), "anything")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestSnapshotReplaceIsWholesale(t *testing.T) {
	s := revocation.NewSnapshot()

	s.Replace([]string{"a", "b"})
	require.True(t, s.Contains("a"))
	require.True(t, s.Contains("b"))

	// An id purged upstream disappears locally on the next replace.
	s.Replace([]string{"b", "c"})
	require.False(t, s.Contains("a"))
	require.True(t, s.Contains("b"))
	require.True(t, s.Contains("c"))
	require.Equal(t, 2, s.Len())
}

func TestSnapshotReadersDoNotBlockOnReplace(t *testing.T) {
	s := revocation.NewSnapshot()
	s.Replace([]string{"x"})

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					s.Contains("x")
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		s.Replace([]string{"x", "y"})
	}
	close(done)
	wg.Wait()

	require.True(t, s.Contains("x"))
}

package revocation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/informesapp/go-auth-core/internal/errors"
)

// MinSyncInterval bounds how often a dependent service may poll the
// issuer, whatever the configuration says.
const MinSyncInterval = 5 * time.Second

// Source is where a Syncer fetches the full revoked set from. The
// issuing service is reached through HTTPSource; tests substitute fakes.
type Source interface {
	FetchRevoked(ctx context.Context) ([]string, error)
}

// Syncer is the singleton background loop a dependent service runs to
// keep its local Snapshot in step with the issuer's registry. Fetch
// failures are absorbed: the previous snapshot stays in place and the
// loop retries on the next tick.
type Syncer struct {
	source   Source
	snapshot *Snapshot
	interval time.Duration
	log      zerolog.Logger
}

func NewSyncer(source Source, snapshot *Snapshot, interval time.Duration, log zerolog.Logger) *Syncer {
	if interval < MinSyncInterval {
		interval = MinSyncInterval
	}
	return &Syncer{
		source:   source,
		snapshot: snapshot,
		interval: interval,
		log:      log,
	}
}

// Run polls until ctx is cancelled. It blocks; the owning process starts
// it on a goroutine at init and cancels it at shutdown.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("revocation sync stopped")
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.log.Warn().Err(err).Msg("revocation sync failed, keeping previous snapshot")
			}
		}
	}
}

// SyncOnce fetches the full revoked set and replaces the snapshot
// wholesale. On failure the existing snapshot is left untouched.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	ids, err := s.source.FetchRevoked(ctx)
	if err != nil {
		return errors.Wrapf(errors.ErrSyncUnreachable, "%v", err)
	}
	s.snapshot.Replace(ids)
	s.log.Debug().Int("revoked", len(ids)).Msg("revocation snapshot replaced")
	return nil
}

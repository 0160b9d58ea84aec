package feed

import (
	"context"
	"log/slog"
	"time"
)

// Fetcher is the upstream surface the service needs from Client.
type Fetcher interface {
	Snapshot(ctx context.Context, dateKey, direction string, loc *time.Location) ([]byte, error)
}

// Service fetches live snapshots and falls back to the stored last-good
// payload when the provider is unreachable. The online flag tells the caller
// which one it got.
type Service struct {
	fetcher Fetcher
	store   SnapshotStore
	logger  *slog.Logger
}

func NewService(fetcher Fetcher, store SnapshotStore, logger *slog.Logger) *Service {
	return &Service{fetcher: fetcher, store: store, logger: logger}
}

func (s *Service) Snapshot(ctx context.Context, dateKey string, loc *time.Location) (payload []byte, online bool, err error) {
	payload, fetchErr := s.fetcher.Snapshot(ctx, dateKey, "", loc)
	if fetchErr == nil {
		if storeErr := s.store.Store(ctx, dateKey, payload); storeErr != nil {
			s.logger.Warn("failed to cache feed snapshot", "date", dateKey, "error", storeErr)
		}
		return payload, true, nil
	}

	s.logger.Warn("feed fetch failed, trying cached snapshot", "date", dateKey, "error", fetchErr)
	cached, cacheErr := s.store.Load(ctx, dateKey)
	if cacheErr != nil {
		return nil, false, fetchErr
	}
	return cached, false, nil
}

package source

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"geo_hierarchy/logger"
	"geo_hierarchy/metrics"
	"geo_hierarchy/models"
)

// Snapshot serves reads from an in-memory copy of the upstream tables and
// refreshes it periodically. A failed refresh keeps the previous copy.
type Snapshot struct {
	upstream Source
	current  atomic.Pointer[Memory]
	loadedAt atomic.Int64
}

// NewSnapshot performs the initial load; it fails if that load fails.
func NewSnapshot(ctx context.Context, upstream Source) (*Snapshot, error) {
	s := &Snapshot{upstream: upstream}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads all three tables from upstream and swaps them in.
func (s *Snapshot) Reload(ctx context.Context) error {
	clusters, err := s.upstream.ClusterLinks(ctx, ClusterFilter{})
	if err != nil {
		metrics.SnapshotReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("snapshot cludata: %w", err)
	}
	sambhags, err := s.upstream.SambhagLinks(ctx, SambhagFilter{})
	if err != nil {
		metrics.SnapshotReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("snapshot smdata: %w", err)
	}
	leaves, err := s.upstream.LeafFacts(ctx, LeafFilter{})
	if err != nil {
		metrics.SnapshotReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("snapshot vddata: %w", err)
	}

	s.current.Store(NewMemory(clusters, sambhags, leaves))
	s.loadedAt.Store(time.Now().Unix())
	metrics.SnapshotReloads.WithLabelValues("ok").Inc()
	logger.Log.Infow("hierarchy snapshot loaded",
		"cludata", len(clusters), "smdata", len(sambhags), "vddata", len(leaves))
	return nil
}

// Run reloads the snapshot every interval until ctx is cancelled.
func (s *Snapshot) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(ctx); err != nil {
				logger.Log.Errorw("hierarchy snapshot reload failed, keeping previous data", "error", err)
			}
		}
	}
}

// LoadedAt is the time of the last successful load.
func (s *Snapshot) LoadedAt() time.Time {
	return time.Unix(s.loadedAt.Load(), 0)
}

func (s *Snapshot) Ping(ctx context.Context) error {
	return s.upstream.Ping(ctx)
}

func (s *Snapshot) ClusterLinks(ctx context.Context, f ClusterFilter) ([]models.ClusterLink, error) {
	return s.current.Load().ClusterLinks(ctx, f)
}

func (s *Snapshot) SambhagLinks(ctx context.Context, f SambhagFilter) ([]models.SambhagLink, error) {
	return s.current.Load().SambhagLinks(ctx, f)
}

func (s *Snapshot) LeafFacts(ctx context.Context, f LeafFilter) ([]models.LeafFact, error) {
	return s.current.Load().LeafFacts(ctx, f)
}

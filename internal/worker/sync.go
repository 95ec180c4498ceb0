// Package worker runs background jobs that keep the on-disk routing
// data current.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/profile"
	"github.com/routekit/routekit/internal/storage"
)

// SyncJob downloads routing profiles and installs them into the
// profiles directory.
type SyncJob struct {
	layout  storage.Layout
	fetcher *profile.Fetcher
	logger  zerolog.Logger
}

// SyncJobConfig holds configuration for the sync job.
type SyncJobConfig struct {
	Layout  storage.Layout
	Fetcher *profile.Fetcher
	Logger  zerolog.Logger
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Name     string
	Bytes    int
	Duration time.Duration
}

// NewSyncJob creates a profile sync job.
func NewSyncJob(cfg SyncJobConfig) *SyncJob {
	return &SyncJob{
		layout:  cfg.Layout,
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger,
	}
}

// SyncProfile fetches a profile from url and caches it under the remote
// profile slot. The cache write is skipped when the body is unchanged.
func (j *SyncJob) SyncProfile(ctx context.Context, url string) (*SyncResult, error) {
	start := time.Now()

	body, err := j.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	resolver := profile.NewResolver(j.layout, j.logger)
	resolved, err := resolver.Resolve(profile.Selector{RemoteBody: string(body)})
	if err != nil {
		return nil, fmt.Errorf("caching profile: %w", err)
	}

	result := &SyncResult{
		Name:     resolved.Name,
		Bytes:    len(body),
		Duration: time.Since(start),
	}

	j.logger.Info().
		Str("profile", result.Name).
		Int("bytes", result.Bytes).
		Bool("rewritten", resolved.Rewritten).
		Dur("duration", result.Duration).
		Msg("profile synced")

	return result, nil
}

// InstallArchive extracts a profile archive into the profiles directory.
// Existing profiles are never overwritten.
func (j *SyncJob) InstallArchive(archivePath string) error {
	if err := j.layout.ExtractProfiles(archivePath); err != nil {
		return fmt.Errorf("extracting profile archive: %w", err)
	}

	j.logger.Info().Str("archive", archivePath).Msg("profile archive installed")
	return nil
}

package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/datanaut/fichas/internal/api"
	"github.com/datanaut/fichas/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 2 * time.Minute
)

// StartPoller launches a background goroutine that probes the API and
// refreshes the store. Failed probes back off exponentially. It returns
// immediately.
func StartPoller(ctx context.Context, store *state.Store, client api.StatusFetcher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		for {
			if refresh(ctx, store, client, logger) {
				failures = 0
			} else {
				failures++
			}
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func refresh(ctx context.Context, store *state.Store, client api.StatusFetcher, logger *slog.Logger) bool {
	info, err := client.Info(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		store.Update(nil, nil, err)
		logger.Warn("api info probe failed", "error", err)
		return false
	}
	health, err := client.Health(ctx)
	if err != nil {
		logger.Warn("api health probe failed", "error", err)
		health = nil
	}
	store.Update(info, health, nil)
	return true
}

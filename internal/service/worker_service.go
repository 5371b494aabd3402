package service

import (
	"context"
	"time"

	"hospital-management-backend/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TokenCleanupWorker periodically deletes expired and revoked refresh tokens
type TokenCleanupWorker struct {
	users     UserStore
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	log       *logrus.Entry
}

func NewTokenCleanupWorker(users UserStore, interval, retention time.Duration, log *logger.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		users:     users,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		log:       log.WithComponent("token_cleanup_worker"),
	}
}

// Start runs the cleanup loop until ctx is cancelled
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.WithField("interval", w.interval.String()).Info("Token cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Token cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce removes tokens that went stale more than retention ago
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.retention)
	removed, err := w.users.DeleteStaleRefreshTokens(ctx, cutoff)
	if err != nil {
		w.log.WithError(err).Error("Failed to delete stale refresh tokens")
		return 0
	}
	if removed > 0 {
		w.log.WithField("removed", removed).Info("Deleted stale refresh tokens")
	}
	return removed
}

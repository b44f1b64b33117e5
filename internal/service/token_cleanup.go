package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionCleanup periodically removes sessions whose token expired. It
// stops when ctx is cancelled
func SessionCleanup(ctx context.Context, t time.Duration, s *Sessions) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Session cleanup attached", zap.Duration("tick_every", t))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := s.PruneExpired(ctx, now)
				if err != nil {
					zap.L().Error("Failed to cleanup expired sessions", zap.Error(err))
					continue
				}

				if n > 0 {
					zap.L().Debug("Cleaned up expired sessions", zap.Int64("count", n))
				}
			}
		}
	}()
}

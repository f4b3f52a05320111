package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartHealthMonitor pings the backend with interval and logs reachability changes
func StartHealthMonitor(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		healthy := true
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, interval)
				err := db.PingContext(pingCtx)
				cancel()
				if err != nil {
					if healthy {
						log.Error("backend unreachable", zap.Error(err))
					}
					healthy = false
					continue
				}
				if !healthy {
					log.Info("backend reachable again")
				}
				healthy = true
			}
		}
	}()
}

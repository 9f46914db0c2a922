package database

import (
	"context"
	"log/slog"
	"time"
)

type PoolStats struct {
	MaxOpenConns      int           `json:"max_open_connections"`
	OpenConns         int           `json:"open_connections"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

type HealthCheck struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	Stats        PoolStats     `json:"stats"`
	Timestamp    time.Time     `json:"timestamp"`
}

func (db *DB) GetPoolStats() PoolStats {
	stats := db.Stats()
	return PoolStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

func (db *DB) HealthCheck(ctx context.Context) HealthCheck {
	start := time.Now()
	healthCheck := HealthCheck{
		Timestamp: start,
		Stats:     db.GetPoolStats(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := db.PingContext(pingCtx)
	healthCheck.ResponseTime = time.Since(start)

	if err != nil {
		healthCheck.Status = "unhealthy"
		// raw driver errors stay in the log
		healthCheck.Error = "database unreachable"
		slog.Error("Database health check failed", "error", err)
	} else {
		healthCheck.Status = "healthy"
	}

	return healthCheck
}

// ValidateConnectionPool logs warnings when the pool looks saturated.
// It returns the number of warnings emitted.
func (db *DB) ValidateConnectionPool() int {
	return validatePoolStats(db.GetPoolStats())
}

func validatePoolStats(stats PoolStats) int {
	warnings := 0

	// Check for potential connection leaks
	if stats.MaxOpenConns > 0 && stats.InUse > int(float64(stats.MaxOpenConns)*0.9) {
		slog.Warn("High connection usage detected",
			"in_use", stats.InUse, "max_open", stats.MaxOpenConns)
		warnings++
	}

	if stats.WaitCount > 0 && stats.WaitDuration > time.Second {
		slog.Warn("High database wait times detected",
			"wait_count", stats.WaitCount, "wait_duration", stats.WaitDuration)
		warnings++
	}

	if stats.MaxIdleClosed > 1000 {
		slog.Info("Many idle connections have been closed - consider adjusting MaxIdleConns",
			"closed", stats.MaxIdleClosed)
	}

	return warnings
}

package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bookit/internal/database"
)

// PoolInspector is implemented by *database.DB.
type PoolInspector interface {
	GetPoolStats() database.PoolStats
	ValidateConnectionPool() int
}

// PoolMonitorJob periodically logs connection pool statistics and warns
// when the pool looks saturated.
type PoolMonitorJob struct {
	db       PoolInspector
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once

	mu       sync.Mutex
	runs     int
	warnings int
}

func NewPoolMonitorJob(db PoolInspector, interval time.Duration) *PoolMonitorJob {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PoolMonitorJob{
		db:       db,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs one check immediately and then every interval until Stop or
// ctx is cancelled.
func (j *PoolMonitorJob) Start(ctx context.Context) {
	slog.Info("Starting pool monitor job", "check_interval", j.interval)

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.check()
		for {
			select {
			case <-ticker.C:
				j.check()
			case <-ctx.Done():
				slog.Info("Pool monitor job stopped")
				return
			case <-j.done:
				slog.Info("Pool monitor job stopped")
				return
			}
		}
	}()
}

// Stop завершает задачу и ждет выхода горутины
func (j *PoolMonitorJob) Stop() {
	j.once.Do(func() { close(j.done) })
	j.wg.Wait()
}

// Totals returns how many checks ran and how many warnings they raised.
func (j *PoolMonitorJob) Totals() (runs, warnings int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs, j.warnings
}

func (j *PoolMonitorJob) check() {
	stats := j.db.GetPoolStats()
	warnings := j.db.ValidateConnectionPool()

	j.mu.Lock()
	j.runs++
	j.warnings += warnings
	j.mu.Unlock()

	slog.Debug("Connection pool stats",
		"open", stats.OpenConns,
		"in_use", stats.InUse,
		"idle", stats.Idle,
		"wait_count", stats.WaitCount,
		"warnings", warnings)
}

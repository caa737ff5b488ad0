package metrics

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartPoolCollector refreshes the database connection gauges every interval.
// Call Shutdown on the returned scheduler to stop it.
func StartPoolCollector(pool *pgxpool.Pool, interval time.Duration) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { recordPoolStats(pool.Stat()) }),
		gocron.WithName("db-pool-stats"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule pool stats job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

func recordPoolStats(stat *pgxpool.Stat) {
	UpdateDatabaseConnections(float64(stat.AcquiredConns()), float64(stat.IdleConns()), float64(stat.TotalConns()))
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const (
	defaultConnectTimeout = 5 * time.Second

	// statsNamespace prefixes the database/sql pool metrics.
	statsNamespace = "salondesk"
)

// PoolConfig sizes the connection pool and bounds the startup ping.
// SlowQueryThreshold of zero disables slow query logging.
type PoolConfig struct {
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	ConnectTimeout     time.Duration
	SlowQueryThreshold time.Duration
}

// Open connects to the appointment store and verifies it answers within
// pool.ConnectTimeout.
func Open(ctx context.Context, databaseURL string, pool PoolConfig, log *slog.Logger) (*bun.DB, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "postgres")

	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open appointment store: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	timeout := pool.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping appointment store: %w", err)
	}

	db := bun.NewDB(sqlDB, pgdialect.New())
	if pool.SlowQueryThreshold > 0 {
		db.AddQueryHook(&slowQueryHook{threshold: pool.SlowQueryThreshold, log: log})
	}

	log.Info("appointment store connected",
		"max_open_conns", pool.MaxOpenConns,
		"ping_ms", time.Since(started).Milliseconds(),
	)
	return db, nil
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// StatsCollector exports the pool statistics of db.
func StatsCollector(db *bun.DB) prometheus.Collector {
	return collectors.NewDBStatsCollector(db.DB, statsNamespace)
}

// slowQueryHook logs statements that ran longer than threshold.
type slowQueryHook struct {
	threshold time.Duration
	log       *slog.Logger
}

var _ bun.QueryHook = (*slowQueryHook)(nil)

func (h *slowQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	if elapsed < h.threshold {
		return
	}
	attrs := []any{
		"duration_ms", elapsed.Milliseconds(),
		"operation", event.Operation(),
		"query", event.Query,
	}
	if event.Err != nil && event.Err != sql.ErrNoRows {
		attrs = append(attrs, "err", event.Err)
	}
	h.log.WarnContext(ctx, "slow query", attrs...)
}

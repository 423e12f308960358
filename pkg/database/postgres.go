package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/retry"
)

// Pool defaults, applied where Config leaves a field zero.
const (
	defaultMaxConns        int32 = 25
	defaultMaxConnLifetime       = time.Hour
	defaultMaxConnIdleTime       = 30 * time.Minute
)

// DB is the shared handle to the MES PostgreSQL store.
type DB struct {
	*pgxpool.Pool
}

// Config describes how to reach the store. Zero durations and sizes take the
// package defaults.
type Config struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	// ConnectAttempts bounds the startup wait; values below 2 mean a single try.
	ConnectAttempts int
	// Tracer, when set, observes every statement (see pkg/metrics).
	Tracer pgx.QueryTracer
}

func (c *Config) poolConfig() (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(c.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pc.MaxConns = orDefault(c.MaxConnections, defaultMaxConns)
	pc.MaxConnLifetime = orDefault(c.MaxConnLifetime, defaultMaxConnLifetime)
	pc.MaxConnIdleTime = orDefault(c.MaxConnIdleTime, defaultMaxConnIdleTime)
	if c.Tracer != nil {
		pc.ConnConfig.Tracer = c.Tracer
	}
	return pc, nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// NewConnection opens the pool and checks that the server answers.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	pc, err := cfg.poolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Connect is NewConnection with a bounded backoff while the server comes up.
// Used by the server and the loader, which both may start alongside PostgreSQL.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger) (*DB, error) {
	return retry.DoWithResult(ctx, retry.StartupConfig(cfg.ConnectAttempts), logger, "connect database",
		func(ctx context.Context) (*DB, error) {
			return NewConnection(ctx, cfg)
		})
}

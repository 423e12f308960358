package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var errRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

func fastConfig(attempts int) *Config {
	return &Config{
		MaxAttempts:  attempts,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestStartupConfig(t *testing.T) {
	cfg := StartupConfig(10)
	if cfg.MaxAttempts != 10 {
		t.Errorf("expected MaxAttempts=10, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 500*time.Millisecond {
		t.Errorf("expected InitialDelay=500ms, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 10*time.Second {
		t.Errorf("expected MaxDelay=10s, got %v", cfg.MaxDelay)
	}

	if got := StartupConfig(0).MaxAttempts; got != 1 {
		t.Errorf("expected attempts floored to 1, got %d", got)
	}
}

func TestDo_Success(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), fastConfig(3), zap.NewNop(), "ping", func(ctx context.Context) error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDo_SuccessAfterTransientFailures(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), fastConfig(5), zap.NewNop(), "ping", func(ctx context.Context) error {
		callCount++
		if callCount < 3 {
			return errRefused
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error after retries, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDo_AttemptsExhausted(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), fastConfig(3), zap.NewNop(), "ping", func(ctx context.Context) error {
		callCount++
		return errRefused
	})

	if !errors.Is(err, errRefused) {
		t.Errorf("expected wrapped errRefused, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	authErr := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	callCount := 0
	err := Do(context.Background(), fastConfig(5), zap.NewNop(), "ping", func(ctx context.Context) error {
		callCount++
		return authErr
	})

	if !errors.Is(err, authErr) {
		t.Errorf("expected auth error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call for permanent error, got %d", callCount)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{
		MaxAttempts:  5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	callCount := 0
	start := time.Now()
	err := Do(ctx, cfg, zap.NewNop(), "ping", func(ctx context.Context) error {
		callCount++
		return errRefused
	})

	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("expected quick cancellation, took %v", elapsed)
	}
}

func TestDo_MaxDelayRespected(t *testing.T) {
	cfg := &Config{
		MaxAttempts:  4,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     60 * time.Millisecond,
		Multiplier:   4.0,
	}

	var callTimes []time.Time
	_ = Do(context.Background(), cfg, zap.NewNop(), "ping", func(ctx context.Context) error {
		callTimes = append(callTimes, time.Now())
		return errRefused
	})

	if len(callTimes) != 4 {
		t.Fatalf("expected 4 calls, got %d", len(callTimes))
	}
	for i := 2; i < len(callTimes); i++ {
		if d := callTimes[i].Sub(callTimes[i-1]); d > 100*time.Millisecond {
			t.Errorf("delay %d exceeded cap: %v", i, d)
		}
	}
}

func TestDoWithResult(t *testing.T) {
	callCount := 0
	got, err := DoWithResult(context.Background(), fastConfig(3), nil, "open", func(ctx context.Context) (string, error) {
		callCount++
		if callCount == 1 {
			return "", errRefused
		}
		return "pool", nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "pool" {
		t.Errorf("expected result 'pool', got %q", got)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection refused", errRefused, true},
		{"wrapped refused", fmt.Errorf("failed to ping database: %w", errRefused), true},
		{"starting up", &pgconn.PgError{Code: "57P03"}, true},
		{"connection exception class", &pgconn.PgError{Code: "08006"}, true},
		{"bad password", &pgconn.PgError{Code: "28P01"}, false},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"canceled", context.Canceled, false},
		{"plain error", errors.New("bad config"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

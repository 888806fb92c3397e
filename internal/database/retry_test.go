package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 8 * time.Second},
		{30, 8 * time.Second},
	}

	for _, tt := range tests {
		if got := CalculateBackoff(tt.failures); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.failures, got, tt.want)
		}
	}
}

func noDelay(int) time.Duration { return 0 }

func TestConnectWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	want := &sql.DB{}
	db, err := connectWithRetry(context.Background(), 5, noDelay, func(ctx context.Context) (*sql.DB, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return want, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if db != want {
		t.Error("expected the db returned by the successful attempt")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestConnectWithRetry_GivesUpAfterAttempts(t *testing.T) {
	refused := errors.New("connection refused")
	calls := 0
	_, err := connectWithRetry(context.Background(), 3, noDelay, func(ctx context.Context) (*sql.DB, error) {
		calls++
		return nil, refused
	})
	if !errors.Is(err, refused) {
		t.Fatalf("err = %v, want wrapped %v", err, refused)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestConnectWithRetry_AtLeastOneAttempt(t *testing.T) {
	calls := 0
	_, _ = connectWithRetry(context.Background(), 0, noDelay, func(ctx context.Context) (*sql.DB, error) {
		calls++
		return nil, errors.New("down")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestConnectWithRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := connectWithRetry(ctx, 5, func(int) time.Duration { return time.Hour }, func(ctx context.Context) (*sql.DB, error) {
		calls++
		cancel()
		return nil, errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

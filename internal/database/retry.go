package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

const (
	// initialBackoff は接続リトライの初回遅延。
	initialBackoff = 500 * time.Millisecond
	// maxBackoff は接続リトライの最大遅延。
	maxBackoff = 8 * time.Second
)

// CalculateBackoff は失敗回数に基づいて指数バックオフ遅延を計算する。
// 初回500ミリ秒、2倍ずつ増加、最大8秒。
func CalculateBackoff(failures int) time.Duration {
	delay := initialBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

// ConnectWithRetry はDBの起動待ちのため、疎通できるまで最大attempts回接続を試みる。
// 試行の間は指数バックオフで待機し、ctxがキャンセルされた場合はその時点で中断する。
func ConnectWithRetry(ctx context.Context, databaseURL string, attempts int) (*sql.DB, error) {
	return connectWithRetry(ctx, attempts, CalculateBackoff, func(ctx context.Context) (*sql.DB, error) {
		return Connect(ctx, databaseURL)
	})
}

func connectWithRetry(
	ctx context.Context,
	attempts int,
	backoff func(failures int) time.Duration,
	connect func(ctx context.Context) (*sql.DB, error),
) (*sql.DB, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		db, err := connect(ctx)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		delay := backoff(i)
		slog.Warn("database not reachable, retrying",
			slog.Int("attempt", i+1),
			slog.Int("max_attempts", attempts),
			slog.Duration("retry_in", delay),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("database connection aborted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempts, lastErr)
}

package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/basic/internal/config"
	"github.com/hitoshi/basic/internal/database"
	"github.com/hitoshi/basic/internal/logger"
	"github.com/hitoshi/basic/internal/metrics"
)

// connectAttempts は起動時のDB接続試行回数。
var connectAttempts = 5

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップしてから環境変数のConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_backend", string(cfg.StorageBackend)),
		slog.String("timezone", cfg.Timezone),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg, ParseMigrateDirection(args))
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runServe(cfg)
	}
}

// server はHTTPサーバーと停止時に解放する資源をまとめる。
type server struct {
	httpServer *http.Server
	closers    []func()
}

// close は登録順と逆順に資源を解放する。
func (s *server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newServer は設定に従ってストレージ・サービス・ルーターを組み立てる。
// SEED_SAMPLE_DATA が有効な場合はサンプルデータを投入してから返す。
func newServer(ctx context.Context, cfg *config.Config) (*server, error) {
	srv := &server{}

	var (
		db    *sql.DB
		repos repositories
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		var err error
		db, err = connectDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, func() { db.Close() })
		repos = newPostgresRepositories(db)
		slog.Info("database connection established")
	default:
		repos = newMemoryRepositories()
		slog.Warn("using in-memory storage; data is lost on shutdown")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	svc := newServices(cfg, repos, collector, time.Now)
	srv.closers = append(srv.closers, svc.close)

	if cfg.SeedSampleData {
		if _, err := Seed(ctx, svc.registry, svc.bookings); err != nil {
			srv.close()
			return nil, fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	limiter := newRateLimiter(cfg)
	srv.closers = append(srv.closers, limiter.Stop)

	router := newRouter(cfg, svc, limiter, collector, reg, db, slog.Default())

	srv.httpServer = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

// runServe はAPIサーバーモードで起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	srv, err := newServer(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer srv.close()

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", srv.httpServer.Addr),
		)
		if err := srv.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// MigrateUp は未適用分をすべて適用し、MigrateDown は直近の1つを巻き戻す。
func runMigrate(cfg *config.Config, direction MigrateDirection) error {
	if cfg.StorageBackend != config.StoragePostgres {
		return fmt.Errorf("migrate requires STORAGE_BACKEND=postgres (current: %s)", cfg.StorageBackend)
	}

	slog.Info("running database migrations",
		slog.String("direction", string(direction)),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if direction == MigrateDown {
		if err := database.RollbackMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration rollback failed: %w", err)
		}
	} else if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := database.MigrationVersion(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}

// runSeed はPostgreSQLにサンプルデータを投入する。
// インメモリ構成ではプロセス終了とともに消えるため、serve の SEED_SAMPLE_DATA を使う。
func runSeed(cfg *config.Config) error {
	if cfg.StorageBackend != config.StoragePostgres {
		return fmt.Errorf("seed requires STORAGE_BACKEND=postgres; use SEED_SAMPLE_DATA=true with the memory backend")
	}

	ctx := context.Background()
	db, err := connectDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := newServices(cfg, newPostgresRepositories(db), metrics.Nop{}, time.Now)
	defer svc.close()

	if _, err := Seed(ctx, svc.registry, svc.bookings); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	return nil
}

func connectDatabase(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := database.ConnectWithRetry(ctx, databaseURL, connectAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}

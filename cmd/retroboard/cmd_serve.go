package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/retroboard/internal/board"
	"github.com/user/retroboard/internal/config"
	"github.com/user/retroboard/internal/metrics"
	"github.com/user/retroboard/internal/scheduler"
	"github.com/user/retroboard/internal/server"
	"github.com/user/retroboard/internal/state"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the retroboard HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func pidPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "retroboard.pid")
}

func writePIDFile(cfg *config.Config) (string, error) {
	path := pidPath(cfg)
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write PID file: %w", err)
	}
	return path, nil
}

func snapshotDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "snapshots")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := setupLogging(cfg)
	defer logger.Sync()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	pidFile, err := writePIDFile(cfg)
	if err != nil {
		return err
	}
	defer os.Remove(pidFile)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	if cfg.AdminCode == "" {
		logger.Warn("admin_code is empty; admin routes are disabled")
	}

	collector := metrics.NewCollector()
	registry := board.NewRegistry(store,
		board.WithAdminCode(cfg.AdminCode),
		board.WithEventStore(state.NewEventStore(cfg.DataDir)),
		board.WithLogger(logger.Named("board")),
		board.WithObserver(collector.ObserveOperation),
	)

	snaps := scheduler.New(registry, snapshotDir(cfg), cfg.Snapshot.Keep, logger.Named("snapshot"))
	if err := snaps.Start(cfg.Snapshot.Schedule); err != nil {
		return err
	}
	defer snaps.Stop()

	httpServer := &http.Server{
		Addr: cfg.HTTP.Listen,
		Handler: server.New(registry,
			server.WithLogger(logger.Named("http")),
			server.WithMetrics(collector),
			server.WithAllowedOrigins(cfg.HTTP.AllowedOrigins),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("retroboard started",
			zap.String("listen", cfg.HTTP.Listen),
			zap.String("data_dir", cfg.DataDir),
			zap.String("store", cfg.Store.Driver),
			zap.String("store_path", cfg.StorePath()),
			zap.String("pid_file", pidFile),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigChan)

		for {
			select {
			case <-gctx.Done():
				return nil
			case sig := <-sigChan:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, restarting")
					reexec(cfg, pidFile, snaps, logger)
					continue
				}
				logger.Info("shutting down", zap.String("signal", sig.String()))
				cancel()
				return nil
			}
		}
	})

	return g.Wait()
}

// reexec replaces the process with a fresh copy of itself. It only returns
// if the exec fails, in which case the current process keeps serving.
func reexec(cfg *config.Config, pidFile string, snaps *scheduler.Snapshotter, logger *zap.Logger) {
	execPath, err := os.Executable()
	if err != nil {
		logger.Error("failed to get executable path", zap.Error(err))
		return
	}
	snaps.Stop()
	os.Remove(pidFile)
	logger.Sync()
	if err := syscall.Exec(execPath, os.Args, os.Environ()); err != nil {
		logger.Error("failed to re-exec", zap.Error(err))
		if _, werr := writePIDFile(cfg); werr != nil {
			logger.Error("failed to re-write PID file", zap.Error(werr))
		}
		if err := snaps.Start(cfg.Snapshot.Schedule); err != nil {
			logger.Error("failed to restart snapshots", zap.Error(err))
		}
	}
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/retroboard/internal/board"
	"github.com/user/retroboard/internal/config"
	"github.com/user/retroboard/internal/state"
	"github.com/user/retroboard/internal/types"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "retroboard",
	Short:         "Sprint retrospective board server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// openStore returns the document store selected by store.driver and a
// function releasing it.
func openStore(cfg *config.Config) (types.Store, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		s, err := state.OpenSQLiteStore(cfg.StorePath())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverMemory:
		return state.NewMemoryStore(), nop, nil
	default:
		return state.NewFileStore(cfg.StorePath()), nop, nil
	}
}

// localAdminCode is the capability CLI commands hold. Whoever can run the
// CLI can already read the data directory.
var localAdminCode = uuid.NewString()

// openLocalRegistry builds a registry for one-shot CLI commands.
func openLocalRegistry(cfg *config.Config) (*board.Registry, func() error, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	if cfg.Store.Driver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "warning: store.driver is memory; changes made here are not visible to the server")
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	reg := board.NewRegistry(store,
		board.WithAdminCode(localAdminCode),
		board.WithEventStore(state.NewEventStore(cfg.DataDir)),
	)
	return reg, closeStore, nil
}

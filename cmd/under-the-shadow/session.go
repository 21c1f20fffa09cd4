package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/under-the-shadow/internal/config"
	"github.com/appengine-ltd/under-the-shadow/internal/content"
	"github.com/appengine-ltd/under-the-shadow/internal/game"
	"github.com/appengine-ltd/under-the-shadow/internal/save"
)

type session struct {
	settings config.Settings
	logger   *slog.Logger
	store    save.Store
	runCfg   game.RunConfig
	slot     int
	logFile  *os.File
}

// logFileName is where play writes logs while the terminal is taken over.
const logFileName = "under-the-shadow.log"

// openSession layers settings file, SHADOW_* env and flags, then opens the store.
// A nil logOut sends logs to a file in the data directory.
func openSession(ctx context.Context, cmd *cobra.Command, flags *globalFlags, logOut io.Writer) (_ *session, err error) {
	configPath := flags.configPath
	if configPath == "" && flags.dataDir != "" {
		configPath = filepath.Join(flags.dataDir, config.SettingsFileName)
	}
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	settings = config.FromEnv(settings)
	if flags.dataDir != "" {
		settings.DataDir = flags.dataDir
	}
	if flags.store != "" {
		settings.Store = flags.store
	}
	if flags.logLevel != "" {
		settings.LogLevel = flags.logLevel
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	var logFile *os.File
	if logOut == nil {
		if err := os.MkdirAll(settings.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		logFile, err = os.OpenFile(filepath.Join(settings.DataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logOut = logFile
		defer func() {
			if err != nil {
				_ = logFile.Close()
			}
		}()
	}
	logger := config.NewLogger(settings.LogLevel, logOut)

	balance, err := config.LoadBalance(settings.BalancePath)
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}
	runCfg := game.RunConfig{
		Seed:      flags.seed,
		FinalWeek: flags.weeks,
		Balance:   balance,
	}
	if runCfg.Seed == 0 {
		runCfg.Seed = time.Now().UnixNano()
	}
	if runCfg.FinalWeek == 0 {
		runCfg.FinalWeek = game.DefaultFinalWeek
	}
	if settings.ContentPath != "" {
		lib, err := content.Load(settings.ContentPath)
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		runCfg.Content = lib
	}

	store, err := save.Open(ctx, settings.Store, settings.DataDir, settings.Compress, logger)
	if err != nil {
		return nil, fmt.Errorf("open save store: %w", err)
	}
	logger.Debug("session opened", "data_dir", settings.DataDir, "store", settings.Store, "command", cmd.Name())
	return &session{settings: settings, logger: logger, store: store, runCfg: runCfg, slot: flags.slot, logFile: logFile}, nil
}

func (s *session) Close() error {
	err := s.store.Close()
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
	return err
}

// run starts a fresh run or restores the one stored in the session slot.
func (s *session) run(ctx context.Context, resume bool) (*game.RunState, error) {
	if resume {
		f, err := s.store.Load(ctx, s.slot)
		if err != nil {
			return nil, err
		}
		state, err := game.Restore(f.Snapshot, s.runCfg)
		if err != nil {
			return nil, err
		}
		s.logger.Info("run restored", "run", state.RunID, "slot", s.slot, "week", state.Week)
		return &state, nil
	}
	state, err := game.NewRunState(s.runCfg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("run started", "run", state.RunID, "seed", s.runCfg.Seed, "final_week", state.Config.FinalWeek)
	return &state, nil
}

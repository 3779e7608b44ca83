// FILE: trackwisp/src/cmd/trackwisp/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"trackwisp/src/cmd/trackwisp/commands"
	"trackwisp/src/internal/config"
	"trackwisp/src/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}
	if handled {
		return exitOK
	}

	flagCfg, err := ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			router.Route([]string{os.Args[0], "help"})
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n\nRun 'trackwisp help' for usage\n", err)
		return exitFailure
	}

	quietMode = flagCfg.Quiet

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		return exitOK
	}

	configPath := flagCfg.ConfigFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	applyFlagOverrides(flagCfg)
	// Only an explicitly named config file has to exist
	if flagCfg.ConfigFile != "" {
		if _, err := os.Stat(flagCfg.ConfigFile); err != nil {
			stderrf("Config file not found: %s\n", flagCfg.ConfigFile)
			return exitConfig
		}
	}

	cfg, err := config.Load(configPath, flagCfg.Overrides)
	if err != nil {
		stderrf("Failed to load config: %v\n", err)
		return exitConfig
	}

	logger, err := initializeLogger(cfg.Logging, flagCfg.Quiet)
	if err != nil {
		stderrf("Failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer shutdownLogger(logger)

	logger.Info("msg", "TrackWisp starting",
		"component", "main",
		"version", version.String(),
		"config_file", configPath,
		"log_output", cfg.Logging.Output)

	svc, err := bootstrapService(cfg, logger)
	if err != nil {
		logger.Error("msg", "Failed to bootstrap service",
			"component", "main",
			"error", err)
		stderrf("Failed to bootstrap service: %v\n", err)
		return exitFailure
	}

	signals := NewSignalHandler(logger)
	defer signals.Stop()

	if flagCfg.EventFile != "" {
		ctx, cancel := signals.CancelOnSignal(context.Background())
		code := runEvent(ctx, svc, flagCfg.EventFile, cfg.Ingest.HTTP.MaxBodyBytes)
		cancel()
		svc.Shutdown()
		return code
	}

	if err := svc.startIngest(cfg); err != nil {
		logger.Error("msg", "Failed to start ingest",
			"component", "main",
			"error", err)
		stderrf("Failed to start ingest: %v\n", err)
		svc.Shutdown()
		return exitFailure
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !cfg.DisableStatusReporter {
		go statusReporter(ctx, svc, time.Duration(cfg.StatusIntervalSeconds)*time.Second)
	}

	signals.Wait(ctx)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		svc.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete", "component", "main")
		return exitOK
	case <-shutdownCtx.Done():
		logger.Error("msg", "Shutdown timeout exceeded, forcing exit", "component", "main")
		return exitFailure
	}
}

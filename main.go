package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	app "github.com/rocketscienceinc/tictactoe-minimax/internal"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/logger"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/telemetry"
)

const telemetryShutdownTimeout = 5 * time.Second

// main - is the entry point of the application. It initializes the configuration, telemetry, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()

	shutdown := initTelemetry(conf)
	defer shutdown()

	log := logger.New(os.Stdout, conf.LogLevel, conf.Telemetry.Enabled)

	if err := app.RunApp(log, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config.
func initConfig() *config.Config {
	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	return config.MustLoad(filepath.Join(baseDir, "./config.yml"))
}

// initialize telemetry; a no-op unless enabled in the config.
func initTelemetry(conf *config.Config) func() {
	if !conf.Telemetry.Enabled {
		return func() {}
	}

	shutdown, err := telemetry.InitOtel(context.Background(), conf.Telemetry.Endpoint, conf.Telemetry.ServiceName)
	if err != nil {
		panic(fmt.Errorf("failed to init telemetry: %w", err))
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shut down telemetry: %v\n", err)
		}
	}
}

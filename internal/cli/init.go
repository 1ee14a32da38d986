// Package cli holds the startup steps shared by cmd/billetera and
// cmd/billetera-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"billetera/internal/config"
	"billetera/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Bootstrap loads .env and the configuration, builds the process logger for
// component and installs it as the slog default. An invalid LOG_LEVEL falls
// back to info and is reported by Validate.
func Bootstrap(component string) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	return cfg, SetupLogger(cfg, component)
}

// SetupLogger builds the logger described by cfg.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	logCfg, err := cfg.LoggerConfig(component)
	if err != nil {
		logCfg = log.DefaultConfig()
		logCfg.Component = component
	}
	logger := log.New(logCfg)
	log.SetDefault(logger)
	return logger
}

// MustValidate exits the process when the configuration is invalid.
func MustValidate(cfg *config.Config, logger *log.Logger) {
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

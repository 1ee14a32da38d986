package cli

import (
	"testing"

	"billetera/internal/config"
	"billetera/internal/log"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"valid level", "debug"},
		{"invalid level falls back", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{LogLevel: tt.level, LogFormat: "json"}
			logger := SetupLogger(cfg, log.ComponentWorker)
			if logger == nil {
				t.Fatal("expected logger")
			}
			if logger.Component() != log.ComponentWorker {
				t.Fatalf("component = %q", logger.Component())
			}
		})
	}
}

func TestSignalContext(t *testing.T) {
	ctx, cancel := SignalContext()
	if ctx.Err() != nil {
		t.Fatal("context cancelled early")
	}
	cancel()
	<-ctx.Done()
}

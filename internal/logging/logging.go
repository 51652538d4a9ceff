// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-narrative/internal/config"
)

// Setup installs the default logger: JSON in production, text elsewhere.
func Setup(cfg *config.Config) *slog.Logger {
	logger := New(os.Stdout, cfg.IsProduction(), cfg.LogLevel)
	slog.SetDefault(logger)
	return logger
}

// New builds a logger writing to w
func New(w io.Writer, json bool, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

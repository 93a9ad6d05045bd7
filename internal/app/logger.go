package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide logger for the insights binaries.
// LOG_FORMAT=json selects the JSON handler for log shippers; anything else
// falls back to text for local runs. Source locations are attached either
// way so denial and outage lines can be traced to their call site.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	format := ""
	if cfg != nil {
		format = cfg.LogFormat
	}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
}

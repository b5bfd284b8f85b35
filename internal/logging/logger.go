// Package logging configures the process-wide slog logger and fans error
// records out to PostgreSQL for later inspection.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON stdout handler as the default logger. Main swaps in
// the multi-handler once the database connection exists.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// New builds the process logger. "text" renders through charmbracelet/log for
// terminals, anything else emits JSON lines.
func New(format string, level slog.Level, w io.Writer) *slog.Logger {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		handler := log.NewWithOptions(w, log.Options{
			Level:           log.Level(level),
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          "kitsune",
		})
		return slog.New(handler)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

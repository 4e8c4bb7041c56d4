package main

import (
	"context"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger creates a logger with short timestamps ("15:04:05.00") that
// writes to w at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	l.SetStyles(logStyles())
	return l
}

// logStyles matches the severity palette of the diagnostics renderer.
func logStyles() *log.Styles {
	styles := log.DefaultStyles()
	level := func(name, fg string) lipgloss.Style {
		return lipgloss.NewStyle().SetString(name).Bold(true).MaxWidth(5).Foreground(lipgloss.Color(fg))
	}
	styles.Levels[log.DebugLevel] = level("DEBUG", "8")
	styles.Levels[log.InfoLevel] = level("INFO", "6")
	styles.Levels[log.WarnLevel] = level("WARN", "3")
	styles.Levels[log.ErrorLevel] = level("ERROR", "1")
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	return styles
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}

package sinks

import "github.com/tablehop/menu-courier/internal/logger"

// Logger defines the logging surface sinks rely on.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	return logger.Ensure(log)
}

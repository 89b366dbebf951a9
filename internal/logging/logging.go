// Package logging configures the process-wide structured logger.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Init configures the global logrus logger with JSON output and the given
// level. Unknown level strings fall back to info.
func Init(out io.Writer, level string) {
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// L returns the configured logger. Packages log through this entry point so
// tests can swap output without touching logrus globals everywhere.
func L() *logrus.Logger {
	return logrus.StandardLogger()
}

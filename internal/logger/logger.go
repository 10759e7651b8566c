// Package logger configures the shared structured logger used by the
// daemon surfaces: the HTTP server, the scheduler workers and the MCP
// server. One-shot CLI paths keep writing plain output instead.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance. It carries usable defaults before
// Init runs, so callers never have to nil-check it.
var Log = logrus.New()

// Init reconfigures the shared logger. An unparseable level falls back
// to info. An empty filePath logs to stderr only; otherwise lines go to
// both stderr and the file.
func Init(levelStr string, jsonFormat bool, filePath string) error {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if jsonFormat {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	writers := []io.Writer{os.Stderr}
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}
	Log.SetOutput(io.MultiWriter(writers...))
	return nil
}

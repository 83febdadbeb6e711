package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"faqbot/internal/config"
)

// newLogger builds the logrus entry for the app. The returned close func
// releases the log file, if any.
func newLogger(cfg config.LogConfig, fallbackOut io.Writer) (*logrus.Entry, func() error, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(fallbackOut)

	level, levelErr := logrus.ParseLevel(cfg.Level)
	if levelErr != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	closeLog := func() error { return nil }
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(f)
		closeLog = f.Close
	}
	entry := logger.WithField("service", "faqbot")
	if levelErr != nil {
		entry.WithField("level", cfg.Level).Warn("unknown log level, using info")
	}
	return entry, closeLog, nil
}

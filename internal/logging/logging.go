// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/config"
)

// Setup applies cfg to the standard logger. When cfg.File is empty logs go
// to fallback; a nil fallback keeps stderr. The returned closer releases
// the log file, if one was opened.
func Setup(cfg config.Log, fallback io.Writer) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)

	if cfg.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch {
	case cfg.File != "":
		if dir := filepath.Dir(cfg.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("log dir: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
		return f, nil
	case fallback != nil:
		logrus.SetOutput(fallback)
	default:
		logrus.SetOutput(os.Stderr)
	}
	return io.NopCloser(nil), nil
}

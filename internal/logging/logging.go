// Package logging builds the logrus logger shared by the client and the
// development server. The TUI owns the terminal, so logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to w at the given level. An empty level
// means info.
func New(w io.Writer, level string) (*logrus.Logger, error) {
	lvl := logrus.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(lvl)
	return log, nil
}

// OpenFile creates the log file's directory if needed and returns a logger
// appending to it. The caller closes the returned file.
func OpenFile(path, level string) (*logrus.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return log, f, nil
}

// Discard returns a logger that drops everything. Used when no logger is
// supplied.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Component scopes a logger to one part of the program.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	if log == nil {
		log = Discard()
	}
	return log.WithField("component", name)
}

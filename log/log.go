// Package log provides levelled, structured logging with filesystem-based persistence.
//
// Logging is opt-in: unless logs.write is enabled every call is discarded, so the
// player screen never competes with log output on the terminal.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/aurora-stream/aurora/filesystem"
	"github.com/aurora-stream/aurora/key"
	"github.com/aurora-stream/aurora/where"
	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields = logrus.Fields

var enabled atomic.Bool

// Setup initializes the log file, formatter and level from the global configuration.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		enabled.Store(false)
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	configure(f, viper.GetBool(key.LogsJson), viper.GetString(key.LogsLevel))
	return nil
}

// configure routes output to w and enables logging.
func configure(w io.Writer, asJson bool, level string) {
	logrus.SetOutput(w)

	if asJson {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
	enabled.Store(true)
}

// Enabled reports whether log output is currently being written.
func Enabled() bool {
	return enabled.Load()
}

// Entry is a log entry carrying fields. It drops output while logging is disabled.
type Entry struct {
	fields Fields
}

// WithFields starts an entry with the given structured fields.
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

// WithField is WithFields for a single pair.
func WithField(k string, v any) *Entry {
	return &Entry{fields: Fields{k: v}}
}

// WithFields returns a copy of e extended with fields.
func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{fields: lo.Assign(e.fields, fields)}
}

// WithField returns a copy of e extended with one field.
func (e *Entry) WithField(k string, v any) *Entry {
	return e.WithFields(Fields{k: v})
}

func (e *Entry) entry() *logrus.Entry {
	return logrus.WithFields(e.fields)
}

func (e *Entry) Error(args ...any) {
	if Enabled() {
		e.entry().Error(args...)
	}
}

func (e *Entry) Warn(args ...any) {
	if Enabled() {
		e.entry().Warn(args...)
	}
}

func (e *Entry) Info(args ...any) {
	if Enabled() {
		e.entry().Info(args...)
	}
}

func (e *Entry) Debug(args ...any) {
	if Enabled() {
		e.entry().Debug(args...)
	}
}

func Error(args ...any) {
	if Enabled() {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if Enabled() {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...any) {
	if Enabled() {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...any) {
	if Enabled() {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...any) {
	if Enabled() {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...any) {
	if Enabled() {
		logrus.Infof(format, args...)
	}
}

func Debug(args ...any) {
	if Enabled() {
		logrus.Debug(args...)
	}
}

func Debugf(format string, args ...any) {
	if Enabled() {
		logrus.Debugf(format, args...)
	}
}

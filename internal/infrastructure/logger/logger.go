package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	mu     sync.RWMutex
	global *zerolog.Logger
)

// GetLogger returns the process logger. Until New or SetLogger runs it is an
// info-level console logger on stdout.
func GetLogger() zerolog.Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return *l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		fallback := build(os.Stdout, FormatConsole).Level(zerolog.InfoLevel)
		global = &fallback
	}
	return *global
}

// SetLogger replaces the process logger.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	global = &l
	mu.Unlock()
}

// New builds a logger for the configured level and format and installs it
// as the process logger.
func New(level, format string) (zerolog.Logger, error) {
	l, err := NewWithWriter(os.Stdout, level, format)
	if err != nil {
		return zerolog.Logger{}, err
	}
	SetLogger(l)
	return l, nil
}

// NewWithWriter builds a logger writing to w without touching the process logger.
func NewWithWriter(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatJSON, FormatConsole, "":
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}
	return build(w, format).Level(lvl), nil
}

func build(w io.Writer, format string) zerolog.Logger {
	if format == FormatJSON {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

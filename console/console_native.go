//go:build !wasm
// +build !wasm

package console

import (
	"sync"

	"go.uber.org/zap"
)

// Native builds have no browser console. Messages go to a zap logger
// instead; the default logger discards everything so tests stay quiet.

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// SetLogger routes console output to l. A nil logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Log writes an info-level entry.
func Log(args ...any) {
	current().Infoln(args...)
}

// Debug writes a debug-level entry.
func Debug(args ...any) {
	current().Debugln(args...)
}

// Warn writes a warn-level entry.
func Warn(args ...any) {
	current().Warnln(args...)
}

// Error writes an error-level entry.
func Error(args ...any) {
	current().Errorln(args...)
}

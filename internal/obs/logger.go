// Package obs wires the module's structured logging, the way
// cabbageDB/logger wires zap for the rest of that codebase.
package obs

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.Mutex
	log *zap.SugaredLogger
)

// Init installs the package logger at the given level ("debug", "info",
// "warn", "error"). Safe to call more than once; the last call wins.
// Unconfigured use (no Init call) falls back to an info-level console
// logger so library code never nil-panics on a bare `go test` run.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	log = build(level).Sugar()
}

func init() {
	mu.Lock()
	defer mu.Unlock()
	log = build("info").Sugar()
}

func build(level string) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(cfg)
	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), levelAt(level))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func levelAt(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return log
}

func Debugf(format string, args ...interface{}) { get().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { get().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { get().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { get().Errorf(format, args...) }

// Package logger provides opinionated logging capabilities for the parley system
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SessionLogFile is the log file chat sessions append to beneath the logs
// directory.
const SessionLogFile = "session.log"

// noisyLoggers are named loggers capped to warn level in the session log.
// The quieting also covers their children, e.g. "bot.selection" under "bot".
var noisyLoggers = map[string]bool{
	"bot":           true,
	"bot.selection": true,
	"storage":       true,
	"corpus":        true,
}

// NewSessionLogger returns a logger that writes only to logsDir/session.log,
// creating the directory if needed. Each line is
// "time | LEVEL | name | message". With debug set, the level drops to debug
// and the noisy-logger quieting is lifted. The returned close function
// releases the underlying file.
func NewSessionLogger(logsDir string, debug bool) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(logsDir, SessionLogFile)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open session log: %w", err)
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " | "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(file),
		level,
	)

	if debug {
		return zap.New(core), file.Close, nil
	}

	return zap.New(quietCore{core}), file.Close, nil
}

// quietCore drops sub-warn entries from loggers on the noisy list.
type quietCore struct {
	zapcore.Core
}

func (c quietCore) With(fields []zapcore.Field) zapcore.Core {
	return quietCore{c.Core.With(fields)}
}

func (c quietCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.Level < zapcore.WarnLevel && isNoisy(ent.LoggerName) {
		return ce
	}

	return c.Core.Check(ent, ce)
}

func isNoisy(name string) bool {
	if noisyLoggers[name] {
		return true
	}

	for noisy := range noisyLoggers {
		if strings.HasPrefix(name, noisy+".") {
			return true
		}
	}

	return false
}

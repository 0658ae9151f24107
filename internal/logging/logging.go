// Package logging builds the zap loggers used across the matching engine.
package logging

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured field keys shared by the engine's log entries
const (
	FieldJobID       = "job_id"
	FieldMatchID     = "match_id"
	FieldCandidateID = "candidate_id"
	FieldComponent   = "component"
)

// New builds a logger at the given level. Output goes to stderr so that
// command output on stdout stays machine readable.
func New(level string, json bool) (*zap.Logger, error) {
	encoding := "console"
	if json {
		encoding = "json"
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// ForComponent tags every entry with the component name
func ForComponent(logger *zap.Logger, name string) *zap.Logger {
	return WithFields(logger, zap.String(FieldComponent, name))
}

// JobID is the job id field
func JobID(id uuid.UUID) zap.Field { return zap.String(FieldJobID, id.String()) }

// MatchID is the match id field
func MatchID(id uuid.UUID) zap.Field { return zap.String(FieldMatchID, id.String()) }

// CandidateID is the candidate id field
func CandidateID(id uuid.UUID) zap.Field { return zap.String(FieldCandidateID, id.String()) }

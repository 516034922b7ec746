package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldRequestID  = "request_id"
	FieldUserID     = "user_id"
	FieldAttemptID  = "attempt_id"
	FieldInstrument = "instrument"
	FieldComponent  = "component"
)

// New builds the process logger. Development environments get the console
// encoder with debug level; everything else logs JSON at info.
func New(development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// Component returns a child logger tagged with the component name. A nil
// logger yields a no-op logger.
func Component(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return logger
	}
	return logger.With(zap.String(FieldComponent, name))
}

type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, dropping blank keys
// and values.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			continue
		}
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

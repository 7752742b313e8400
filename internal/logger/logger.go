package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger for the given environment.
// prod uses JSON output, local/dev use colored console output, test discards everything.
// levelOverride (if non-empty) overrides the log level: debug, info, warn, error.
// All output goes to stderr so stdout stays free for CLI and stdio transports.
func NewLogger(env string, levelOverride ...string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
	case "test":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if len(levelOverride) > 0 && levelOverride[0] != "" {
		level, err := ParseLevel(levelOverride[0])
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Printf adapts a zap logger to the printf-style logger interface that
// embedded stores such as badger expect.
type Printf struct {
	s *zap.SugaredLogger
}

// NewPrintf wraps l. A nil logger discards output.
func NewPrintf(l *zap.Logger) *Printf {
	if l == nil {
		l = zap.NewNop()
	}
	return &Printf{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (p *Printf) Errorf(format string, args ...any)   { p.s.Errorf(format, args...) }
func (p *Printf) Warningf(format string, args ...any) { p.s.Warnf(format, args...) }
func (p *Printf) Infof(format string, args ...any)    { p.s.Infof(format, args...) }
func (p *Printf) Debugf(format string, args ...any)   { p.s.Debugf(format, args...) }

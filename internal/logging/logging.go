// Package logging wires zap into the lifecycle output.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// New builds the diagnostic logger. Development loggers are human readable.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build logger")
	}

	return logger, nil
}

// OutputLogger writes every line to the output as is and mirrors it to zap,
// at the level matching the line prefix.
type OutputLogger struct {
	mu  sync.Mutex
	out io.Writer
	zl  *zap.Logger
}

func NewOutputLogger(out io.Writer, zl *zap.Logger) *OutputLogger {
	if zl == nil {
		zl = zap.NewNop()
	}

	return &OutputLogger{out: out, zl: zl}
}

func (l *OutputLogger) Log(ctx context.Context, message string) {
	l.mu.Lock()
	_, err := fmt.Fprintln(l.out, message)
	l.mu.Unlock()

	fields := make([]zap.Field, 0, 2)
	if id, ok := model.RunID(ctx); ok {
		fields = append(fields, zap.String("run_id", id.String()))
	}

	class := Classify(message)
	if class == Done {
		fields = append(fields, zap.Bool("done", true))
	}

	if ce := l.zl.Check(class.Level(), message); ce != nil {
		ce.Write(fields...)
	}

	if err != nil {
		l.zl.Warn("unable to write output", zap.Error(err))
	}
}

// Class is the kind of an output line.
type Class int

const (
	Plain Class = iota
	Critical
	Error
	Warning
	Debug
	Trace
	Done
)

// doneMarks is the number of '=' framing a completion banner.
const doneMarks = 20

// Classify returns the class of an output line from its prefix.
func Classify(line string) Class {
	switch {
	case strings.HasPrefix(line, "CRITICAL:"):
		return Critical
	case strings.HasPrefix(line, "ERROR:"):
		return Error
	case strings.HasPrefix(line, "WARNING:"):
		return Warning
	case strings.HasPrefix(line, "DEBUG:"):
		return Debug
	case strings.HasPrefix(line, "TRACE:"):
		return Trace
	case strings.Count(line, "=") == doneMarks:
		return Done
	default:
		return Plain
	}
}

// Level maps a class to a zap level.
func (c Class) Level() zapcore.Level {
	switch c {
	case Critical, Error:
		return zapcore.ErrorLevel
	case Warning:
		return zapcore.WarnLevel
	case Debug, Trace:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

var _ access.Logger = (*OutputLogger)(nil)

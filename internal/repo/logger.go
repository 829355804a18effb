package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger forwards GORM's log calls to the global zerolog logger.
//
// Statements are traced at debug level; statements slower than slow are
// promoted to warn and failures to error. Record-not-found is not an error
// here because callers use it as a normal lookup outcome. With redact set,
// traced SQL goes through RedactSQL first.
type gormLogger struct {
	level  logger.LogLevel
	slow   time.Duration
	redact bool
}

// NewGormLogger returns a GORM logger backed by zerolog.
func NewGormLogger(slow time.Duration, redact bool) logger.Interface {
	return &gormLogger{level: logger.Info, slow: slow, redact: redact}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var ev *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		ev = log.Error().Err(err)
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		ev = log.Warn().Dur("slow_threshold", l.slow)
	case l.level >= logger.Info:
		ev = log.Debug()
	default:
		return
	}

	sql, rows := fc()
	if l.redact {
		sql = RedactSQL(sql)
	}
	ev.Str("component", "gorm").
		Str("sql", sql).
		Int64("rows", rows).
		Dur("latency", elapsed).
		Msg("query")
}

package logs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"

	"IdleCity/modules/kit/tracex"
)

type GormLogger struct {
	level         glogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger 把 GORM 的日志接到 zap。
func NewGormLogger(level glogger.LogLevel, slowThreshold time.Duration) glogger.Interface {
	return &GormLogger{level: level, slowThreshold: slowThreshold}
}

func (l *GormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Info {
		Info("gorm: "+msg, append(ctxFields(ctx), zap.Any("data", data))...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Warn {
		Warn("gorm: "+msg, append(ctxFields(ctx), zap.Any("data", data))...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Error {
		Error("gorm: "+msg, append(ctxFields(ctx), zap.Any("data", data))...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := append(ctxFields(ctx),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	)

	switch {
	case err != nil && !errors.Is(err, glogger.ErrRecordNotFound):
		Error("gorm trace error", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		Warn("gorm slow query", fields...)
	case l.level >= glogger.Info:
		Debug("gorm trace", fields...)
	}
}

func ctxFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	if playerID, ok := tracex.PlayerIDFrom(ctx); ok {
		fields = append(fields, zap.Int64("player_id", playerID))
	}
	return fields
}

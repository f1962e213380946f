package logx

import (
	"context"

	"IdleCity/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 是 zap 的适配器，实现 logx.Logger。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		return &ZapLogger{logger: zap.NewNop()}
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	l := z.logger
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		l = l.With(zap.String("trace_id", tid))
	}
	if pid, ok := tracex.PlayerIDFrom(ctx); ok {
		l = l.With(zap.Int64("player_id", pid))
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) Named(name string) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	return &ZapLogger{logger: z.logger.Named(name)}
}

// Zap 暴露底层 logger，给需要 *zap.Logger 的三方组件使用。
func (z *ZapLogger) Zap() *zap.Logger {
	return z.logger
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field) {
	z.logger.Info(msg, fields...)
}

func (z *ZapLogger) Error(msg string, fields ...zap.Field) {
	z.logger.Error(msg, fields...)
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) {
	z.logger.Debug(msg, fields...)
}

func (z *ZapLogger) Warn(msg string, fields ...zap.Field) {
	z.logger.Warn(msg, fields...)
}

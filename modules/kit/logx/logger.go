package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是各模块共用的最小日志接口。
//
// 约束：
// - 只承载结构化字段 + ctx 透传（trace_id / player_id）
// - 纯逻辑包（internal/game/...）不依赖它，只有外壳层打日志
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
	// Named 追加 logger 名，区分 session/dc/http 等组件。
	Named(name string) Logger
}

// Nop 返回丢弃所有输出的 Logger，测试里常用。
func Nop() Logger {
	return NewZapLogger(nil)
}

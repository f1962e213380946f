package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type playerIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(traceIDKey{}).(string)
	return s, ok && s != ""
}

// WithPlayerID 把当前请求归属的玩家写进 ctx，日志会自动带上 player_id。
func WithPlayerID(ctx context.Context, playerID int64) context.Context {
	return context.WithValue(ctx, playerIDKey{}, playerID)
}

func PlayerIDFrom(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(playerIDKey{}).(int64)
	return id, ok && id > 0
}

// HeaderTraceID 是请求/响应头里透传 trace_id 的字段名。
const HeaderTraceID = "X-Trace-Id"

// ValidTraceID 只接受 NewTraceID 的格式（32 位小写 hex），外部传入的其他内容一律丢弃。
func ValidTraceID(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}

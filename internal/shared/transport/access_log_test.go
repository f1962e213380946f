package transport

import (
	"context"
	"testing"

	"IdleCity/modules/kit/errx"
	"IdleCity/modules/kit/logx"
	"IdleCity/modules/kit/tracex"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (logx.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logx.NewZapLogger(zap.New(core)), logs
}

func TestWriteAccessLog_业务拒绝带原因和城市(t *testing.T) {
	log, logs := observed()
	ctx := tracex.WithPlayerID(context.Background(), 42)
	ctx = NewContextWithParent(ctx, "POST /api/select")

	SetCity(ctx, "city-9")
	SetRejectReason(ctx, "CITY_NOT_FOUND")
	SetBizCode(ctx, Rejected)
	WriteAccessLog(ctx, log)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "rejected", fields["result"])
	require.Equal(t, "CITY_NOT_FOUND", fields["reason"])
	require.Equal(t, "city-9", fields["city_id"])
	require.EqualValues(t, 42, fields["player_id"])
	require.NotEmpty(t, fields["trace_id"])
}

func TestWriteAccessLog_系统失败(t *testing.T) {
	log, logs := observed()
	ctx := NewContextWithParent(context.Background(), "GET /api/state")
	SetErrorReason(ctx, "TIMEOUT")
	SetBizCode(ctx, RequestTimout)
	WriteAccessLog(ctx, log)

	entry := logs.All()[0]
	require.Equal(t, zapcore.ErrorLevel, entry.Level)
	require.Equal(t, "failure", entry.ContextMap()["result"])
	require.Equal(t, "TIMEOUT", entry.ContextMap()["error_reason"])
}

func TestWriteAccessLog_没有上下文不输出(t *testing.T) {
	log, logs := observed()
	WriteAccessLog(context.Background(), log)
	require.Zero(t, logs.Len())
}

func TestCodeOf_错误映射业务码(t *testing.T) {
	require.Equal(t, OK, CodeOf(nil))
	require.Equal(t, Rejected, CodeOf(errx.ErrRejected.WithReason(testReason("X"))))
	require.Equal(t, RequestTimout, CodeOf(errx.ErrTimeout))
	require.Equal(t, Unavailable, CodeOf(errx.ErrUnavailable))
	require.Equal(t, SystemError, CodeOf(context.Canceled))
}

type testReason string

func (r testReason) ReasonCode() string { return string(r) }

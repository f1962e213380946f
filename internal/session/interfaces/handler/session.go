package handler

import (
	"IdleCity/internal/game/action"
	"IdleCity/internal/game/catalog"
	"IdleCity/internal/session/actors"
	"IdleCity/internal/shared/transport"
	"IdleCity/modules/kit/errx"
	"IdleCity/modules/kit/logx"
	"context"
	"errors"

	"github.com/asynkron/protoactor-go/eventstream"
)

// Service 是接口层看到的会话运行时，由 session/actor.Runtime 实现。
type Service interface {
	State(ctx context.Context, playerID int64) (*actors.Response, error)
	SelectCity(ctx context.Context, playerID int64, cityID string) (*actors.Response, error)
	Act(ctx context.Context, playerID int64, req action.Request) (*actors.Response, error)
	Rates(ctx context.Context, playerID int64, cityID string) (*actors.Response, error)
	Logout(ctx context.Context, playerID int64) error
	Catalog() *catalog.Catalog
}

// EventSource 提供玩家事件订阅，用于 ws 推送。
type EventSource interface {
	Subscribe(playerID int64, fn func(evt actors.PlayerEvent)) *eventstream.Subscription
	Unsubscribe(sub *eventstream.Subscription)
}

type Session struct {
	Service Service
	Events  EventSource
	Log     logx.Logger
}

func NewSession(svc Service, events EventSource, log logx.Logger) *Session {
	if log == nil {
		log = logx.Nop()
	}
	return &Session{Service: svc, Events: events, Log: log}
}

// HandleError 把错误映射成 (业务码, 提示, 拒绝原因)。业务拒绝已在会话 actor 里记过日志，
// 这里只记运行时自身的故障（超时、不可用）。
func (s *Session) HandleError(ctx context.Context, err error) (int, string, string) {
	code := transport.CodeOf(err)
	var e *errx.Error
	if !errors.As(err, &e) {
		logx.ReportSysError(ctx, s.Log, logx.NewSysLog("session handler", err))
		transport.SetErrorReason(ctx, err.Error())
		return int(code), errx.ErrInternal.Msg(), ""
	}
	if e.IsBiz() {
		transport.SetRejectReason(ctx, e.Reason())
		return int(code), e.Msg(), e.Reason()
	}
	if code == transport.RequestTimout || code == transport.Unavailable {
		logx.ReportSysError(ctx, s.Log, logx.NewSysLog("session runtime", err))
	}
	transport.SetErrorReason(ctx, e.CodeText())
	return int(code), e.Msg(), ""
}

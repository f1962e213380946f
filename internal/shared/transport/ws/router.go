package ws

import (
	"IdleCity/internal/shared/transport"
	"IdleCity/modules/kit/logx"
	"IdleCity/modules/kit/tracex"
	"context"
	"fmt"
	"strings"
)

type Group struct {
	prefix   string
	handlers map[string]HandlerFunc
}

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

func (g *Group) Handle(name string, h HandlerFunc) {
	g.handlers[name] = h
}

type Router struct {
	groups map[string]*Group
	log    logx.Logger
}

// Registrar 由各业务模块实现，把自己的消息处理挂到路由上。
type Registrar interface {
	WsRegister(r *Router)
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{
		groups: make(map[string]*Group),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	group := r.groups[prefix]
	if group == nil {
		group = &Group{
			prefix:   prefix,
			handlers: make(map[string]HandlerFunc),
		}
	}
	r.groups[prefix] = group
	return group
}

// Dispatch 按 req.Body.Name 分发，例如 city(组).select(处理器)。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	r.DispatchContext(context.Background(), req, resp)
}

// DispatchContext 同 Dispatch，parent 一般是连接级 ctx，连接断开后处理器里的请求随之取消。
// 处理器 panic 只影响这一条消息。
func (r *Router) DispatchContext(parent context.Context, req *WsMsgReq, resp *WsMsgResp) {
	ctx := r.prepareDispatchContext(parent, req, resp)
	defer r.writeAccessLog(ctx, resp)

	if !r.validateDispatchInput(req, resp) {
		return
	}
	handlerFunc := r.findHandler(req.Body.Name, resp)
	if handlerFunc == nil {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("ws handler %s panic: %v", req.Body.Name, p)
			logx.ReportSysError(ctx, r.log, logx.NewSysLog("ws.dispatch", err))
			transport.SetErrorReason(ctx, "panic")
			r.setErrorResponse(resp, transport.SystemError, "服务器内部错误")
		}
	}()
	handlerFunc(ctx, req, resp)
}

func (r *Router) prepareDispatchContext(parent context.Context, req *WsMsgReq, resp *WsMsgResp) context.Context {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if req != nil && req.Conn != nil {
		if id, ok := req.Conn.GetProperty(ConnKeyPlayerID).(int64); ok {
			ctx = tracex.WithPlayerID(ctx, id)
		}
	}
	ctx = transport.NewContextWithParent(ctx, action)

	if resp != nil && resp.Body != nil {
		// 先置系统错误，避免 handler 漏设时出现“成功假象”。
		resp.Body.Code = int(transport.SystemError)
		resp.Body.Msg = nil
	}
	return ctx
}

func (r *Router) validateDispatchInput(req *WsMsgReq, resp *WsMsgResp) bool {
	if req != nil && req.Body != nil && resp != nil && resp.Body != nil {
		return true
	}
	r.setErrorResponse(resp, transport.InvalidParam, "参数有误")
	return false
}

func (r *Router) findHandler(route string, resp *WsMsgResp) HandlerFunc {
	prefix, handler, ok := parseRouteName(route)
	if !ok {
		r.setErrorResponse(resp, transport.InvalidParam, "路由参数有误")
		return nil
	}

	group := r.groups[prefix]
	if group == nil {
		r.setErrorResponse(resp, transport.InvalidParam, "路由组不存在")
		return nil
	}

	handlerFunc := group.handlers[handler]
	if handlerFunc == nil {
		r.setErrorResponse(resp, transport.InvalidParam, "路由处理器不存在")
		return nil
	}
	return handlerFunc
}

func parseRouteName(name string) (string, string, bool) {
	split := strings.Split(name, ".")
	if len(split) != 2 {
		return "", "", false
	}
	prefix := split[0]
	handler := split[1]
	if prefix == "" || handler == "" {
		return "", "", false
	}
	return prefix, handler, true
}

func (r *Router) setErrorResponse(resp *WsMsgResp, code transport.BizCode, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = int(code)
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	bizCode := transport.SystemError
	if resp != nil && resp.Body != nil {
		bizCode = transport.BizCode(resp.Body.Code)
	}
	transport.SetBizCode(ctx, bizCode)
	transport.WriteAccessLog(ctx, r.log)
}

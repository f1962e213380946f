package ws

import (
	"IdleCity/internal/game/action"
	"IdleCity/internal/session/actors"
	"IdleCity/internal/session/interfaces/handler"
	"IdleCity/internal/session/interfaces/handler/dto"
	connsession "IdleCity/internal/shared/session"
	"IdleCity/internal/shared/transport"
	"IdleCity/internal/shared/transport/http/middleware"
	"IdleCity/internal/shared/transport/ws"
	"context"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 服务端主动推送的消息名
const (
	PushTick    = "push.tick"
	PushCatchUp = "push.catchup"
)

type WsHandler struct {
	session *handler.Session
	server  *ws.Server
	conns   connsession.Manager
}

func NewWsHandler(s *handler.Session) *WsHandler {
	return &WsHandler{session: s, conns: connsession.NewSessMgr()}
}

// Online 返回当前在线的 ws 连接数。
func (h *WsHandler) Online() int {
	return h.conns.Len()
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	h.server = ws.NewServer(r, h.session.Log)

	g := r.Group("city")
	g.Handle("state", h.state)
	g.Handle("select", h.selectCity)
	g.Handle("action", h.act)
	g.Handle("rates", h.rates)
	g.Handle("catalog", h.catalog)
}

// Serve 是挂在 gin 上的升级入口，Auth 中间件已经校验过令牌。
func (h *WsHandler) Serve(c *gin.Context) {
	pid, ok := middleware.PlayerID(c)
	if !ok || h.server == nil {
		c.AbortWithStatus(nethttp.StatusUnauthorized)
		return
	}
	h.server.Serve(c.Writer, c.Request, func(conn *ws.WsServer) {
		conn.SetProperty(ws.ConnKeyPlayerID, pid)
		// 同一玩家只保留一条连接，旧连接关闭后其订阅随之退订
		h.conns.Bind(pid, conn)
		h.bindEvents(conn, pid)
	})
}

// bindEvents 订阅玩家事件推给连接，连接关闭时退订。
func (h *WsHandler) bindEvents(conn *ws.WsServer, pid int64) {
	if h.session.Events == nil {
		return
	}
	sub := h.session.Events.Subscribe(pid, func(evt actors.PlayerEvent) {
		switch e := evt.(type) {
		case *actors.TickEvent:
			conn.Push(PushTick, e.Report)
		case *actors.CatchUpEvent:
			conn.Push(PushCatchUp, e.Result)
		}
	})
	go func() {
		<-conn.Done()
		h.session.Events.Unsubscribe(sub)
		h.session.Log.Debug("ws closed, events unsubscribed", zap.Int64("player_id", pid))
	}()
}

func playerOf(req *ws.WsMsgReq) (int64, bool) {
	if req == nil || req.Conn == nil {
		return 0, false
	}
	id, ok := req.Conn.GetProperty(ws.ConnKeyPlayerID).(int64)
	return id, ok && id > 0
}

func (h *WsHandler) state(ctx context.Context, req *ws.WsMsgReq, rsp *ws.WsMsgResp) {
	pid, ok := playerOf(req)
	if !ok {
		h.fail(rsp, transport.Unauthorized, "未登录")
		return
	}
	resp, err := h.session.Service.State(ctx, pid)
	if err != nil {
		h.error(ctx, rsp, err)
		return
	}
	h.ok(rsp, dto.NewStateView(resp))
}

func (h *WsHandler) selectCity(ctx context.Context, req *ws.WsMsgReq, rsp *ws.WsMsgResp) {
	pid, ok := playerOf(req)
	if !ok {
		h.fail(rsp, transport.Unauthorized, "未登录")
		return
	}
	var in dto.SelectReq
	if err := ws.BindMsg(req, &in); err != nil || in.CityID == "" {
		h.fail(rsp, transport.InvalidParam, "参数有误")
		return
	}
	transport.SetCity(ctx, in.CityID)
	resp, err := h.session.Service.SelectCity(ctx, pid, in.CityID)
	if err != nil {
		h.error(ctx, rsp, err)
		return
	}
	h.ok(rsp, dto.SelectView{StateView: dto.NewStateView(resp), CatchUp: resp.CatchUp})
}

// act 的消息体就是 action.Request，name 字段指明动作。
func (h *WsHandler) act(ctx context.Context, req *ws.WsMsgReq, rsp *ws.WsMsgResp) {
	pid, ok := playerOf(req)
	if !ok {
		h.fail(rsp, transport.Unauthorized, "未登录")
		return
	}
	var in action.Request
	if err := ws.BindMsg(req, &in); err != nil || in.Name == "" {
		h.fail(rsp, transport.InvalidParam, "参数有误")
		return
	}
	resp, err := h.session.Service.Act(ctx, pid, in)
	if err != nil {
		h.error(ctx, rsp, err)
		return
	}
	h.ok(rsp, dto.NewStateView(resp))
}

func (h *WsHandler) rates(ctx context.Context, req *ws.WsMsgReq, rsp *ws.WsMsgResp) {
	pid, ok := playerOf(req)
	if !ok {
		h.fail(rsp, transport.Unauthorized, "未登录")
		return
	}
	var in dto.RatesReq
	if err := ws.BindMsg(req, &in); err != nil {
		h.fail(rsp, transport.InvalidParam, "参数有误")
		return
	}
	transport.SetCity(ctx, in.CityID)
	resp, err := h.session.Service.Rates(ctx, pid, in.CityID)
	if err != nil {
		h.error(ctx, rsp, err)
		return
	}
	h.ok(rsp, dto.RatesView{Rates: resp.Rates})
}

func (h *WsHandler) catalog(_ context.Context, _ *ws.WsMsgReq, rsp *ws.WsMsgResp) {
	h.ok(rsp, dto.NewCatalogView(h.session.Service.Catalog()))
}

func (h *WsHandler) ok(rsp *ws.WsMsgResp, data any) {
	rsp.Body.Code = int(transport.OK)
	rsp.Body.Msg = dto.Success(data)
}

func (h *WsHandler) fail(rsp *ws.WsMsgResp, code transport.BizCode, msg string) {
	rsp.Body.Code = int(code)
	rsp.Body.Msg = dto.Error(int(code), msg, "")
}

func (h *WsHandler) error(ctx context.Context, rsp *ws.WsMsgResp, err error) {
	code, msg, reason := h.session.HandleError(ctx, err)
	rsp.Body.Code = code
	rsp.Body.Msg = dto.Error(code, msg, reason)
}

package interfaces

import (
	"IdleCity/internal/session/interfaces/handler"
	"IdleCity/internal/session/interfaces/handler/dto"
	"IdleCity/internal/session/interfaces/handler/http"
	sessionws "IdleCity/internal/session/interfaces/handler/ws"
	transporthttp "IdleCity/internal/shared/transport/http"
	"IdleCity/internal/shared/transport/http/middleware"
	"IdleCity/internal/shared/transport/ws"
	"IdleCity/modules/kit/logx"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *sessionws.WsHandler
	httpHandler *http.HttpHandler
	wsRouter    *ws.Router
}

func New(svc handler.Service, events handler.EventSource, log logx.Logger) *Module {
	s := handler.NewSession(svc, events, log)
	m := &Module{
		wsHandler:   sessionws.NewWsHandler(s),
		httpHandler: http.NewHttpHandler(s),
		wsRouter:    ws.NewRouter(log),
	}
	m.WsRegister(m.wsRouter)
	return m
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

// HttpRegister 挂在 /api 上：/players 公开，其余走 Auth。
func (m *Module) HttpRegister(g *gin.RouterGroup) {
	authed := g.Group("", middleware.Auth())
	m.httpHandler.RegisterRoutes(g, authed)
	authed.GET("/ws", m.wsHandler.Serve)
	g.GET("/stats", m.stats)
}

func (m *Module) stats(c *gin.Context) {
	c.JSON(nethttp.StatusOK, dto.Success(gin.H{"online": m.wsHandler.Online()}))
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)

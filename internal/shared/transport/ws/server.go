package ws

import (
	"IdleCity/modules/kit/logx"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	router   *Router
	log      logx.Logger
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	s.Serve(resp, req, nil)
}

// Serve 升级连接并启动读写循环。onOpen 在读循环开始前调用，用来绑定玩家、订阅推送。
func (s *Server) Serve(resp http.ResponseWriter, req *http.Request, onOpen func(conn *WsServer)) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.log)
	wsServer.Router(s.router)
	if onOpen != nil {
		onOpen(wsServer)
	}
	wsServer.Run()
}

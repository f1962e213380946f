package ws

import (
	"IdleCity/modules/kit/logx"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outQueueSize = 256
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger

	// ctx 在连接关闭时取消，消息处理都挂在它下面
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger) *WsServer {
	ctx, cancel := context.WithCancel(context.Background())
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送，不阻塞：连接已关闭或发送队列满时丢弃并返回 false。
func (s *WsServer) Push(name string, data any) bool {
	return s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(msg *WsMsgResp) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outChan <- msg:
		return true
	default:
		s.log.Warn("ws_server out queue full, drop msg", zap.String("name", msg.Body.Name))
		return false
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			e := fmt.Sprintf("%v", err)
			s.log.Error("ws readMsgLoop error", zap.String("err", e))
		}
		s.Close()
	}()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Error("ws_server read msg", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			s.log.Warn("ws_server readMsgLoop unmarshal json error", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		// req 和 resp 的 Seq 必须一致
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = BindMsg(&req, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.log.Debug("ws_server read msg", zap.String("name", reqBody.Name), zap.Int64("seq", reqBody.Seq))
			s.router.DispatchContext(s.ctx, &req, &resp)
		}

		s.enqueue(&resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-s.outChan:
			if err := s.write(msg); err != nil {
				s.log.Warn("ws_server write error", zap.Error(err))
				s.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) error {
	marshal, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, marshal)
}

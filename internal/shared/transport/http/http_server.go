package http

import (
	"IdleCity/internal/shared/transport/http/middleware"
	"IdleCity/modules/kit/logx"
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Registrar 由各业务模块实现，把自己的路由挂到分组上。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type Server struct {
	engine  *gin.Engine
	srv     *nethttp.Server
	started time.Time
}

// NewHttpServer 创建 gin 引擎并挂好公共中间件和 /healthz。engine 为空时新建一个带 Recovery 的。
func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	if logger == nil {
		logger = logx.Nop()
	}
	s := &Server{engine: engine, started: time.Now()}
	engine.Use(middleware.Cors(), middleware.AccessLog(logger))
	engine.GET("/healthz", s.healthz)

	s.srv = &nethttp.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(nethttp.StatusOK, gin.H{
		"status":   "ok",
		"uptime_s": int64(time.Since(s.started).Seconds()),
	})
}

// Mount 把模块挂到 prefix 分组下。
func (s *Server) Mount(prefix string, regs ...Registrar) *gin.RouterGroup {
	g := s.engine.Group(prefix)
	for _, r := range regs {
		if r != nil {
			r.HttpRegister(g)
		}
	}
	return g
}

// Start 阻塞运行，Shutdown 后返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}

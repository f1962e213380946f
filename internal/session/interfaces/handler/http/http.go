package http

import (
	"IdleCity/internal/game/action"
	"IdleCity/internal/session/interfaces/handler"
	"IdleCity/internal/session/interfaces/handler/dto"
	"IdleCity/internal/shared/security"
	"IdleCity/internal/shared/transport"
	"IdleCity/internal/shared/transport/http/middleware"
	"IdleCity/internal/shared/utils"
	"IdleCity/modules/kit/errx"
	"context"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HttpHandler struct {
	session *handler.Session
}

func NewHttpHandler(s *handler.Session) *HttpHandler {
	return &HttpHandler{session: s}
}

// RegisterRoutes 挂载 /players、/catalog（公开）和需要令牌的游戏接口。ws 由 WsHandler 挂在 authed 上。
func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup, authed *gin.RouterGroup) {
	group.POST("/players", h.CreatePlayer)
	group.GET("/catalog", h.Catalog)

	authed.GET("/state", h.State)
	authed.POST("/select", h.Select)
	authed.POST("/actions/:name", h.Act)
	authed.GET("/rates/:cityId", h.Rates)
	authed.POST("/logout", h.Logout)
}

// CreatePlayer 分配新玩家 id 并签发令牌。存档在第一次请求时懒创建。
func (h *HttpHandler) CreatePlayer(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := utils.NextPlayerID()
	if err != nil {
		h.error(ctx, c, errx.ErrInternal.WithCause(err))
		return
	}
	token, err := security.Award(id)
	if err != nil {
		h.error(ctx, c, errx.ErrInternal.WithCause(err))
		return
	}
	info := utils.Decompose(id)
	h.session.Log.WithContext(ctx).Info("player created",
		zap.Int64("player_id", id),
		zap.Int64("node", info.Node),
		zap.Time("issued_at", info.IssuedAt),
	)
	h.ok(c, dto.PlayerView{PlayerID: id, Token: token})
}

// Catalog 返回静态内容表，不需要登录。
func (h *HttpHandler) Catalog(c *gin.Context) {
	h.ok(c, dto.NewCatalogView(h.session.Service.Catalog()))
}

func (h *HttpHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, errx.ErrUnauthorized.Msg())
		return
	}

	resp, err := h.session.Service.State(ctx, pid)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.NewStateView(resp))
}

func (h *HttpHandler) Select(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, errx.ErrUnauthorized.Msg())
		return
	}

	var req dto.SelectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	transport.SetCity(ctx, req.CityID)
	resp, err := h.session.Service.SelectCity(ctx, pid, req.CityID)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.SelectView{StateView: dto.NewStateView(resp), CatchUp: resp.CatchUp})
}

// Act 执行 /actions/:name。请求体是 action.Request 去掉 name 后的其余字段，可以为空。
func (h *HttpHandler) Act(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, errx.ErrUnauthorized.Msg())
		return
	}

	var req action.Request
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, transport.InvalidParam, "参数有误")
			return
		}
	}
	req.Name = c.Param("name")

	resp, err := h.session.Service.Act(ctx, pid, req)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.NewStateView(resp))
}

func (h *HttpHandler) Rates(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, errx.ErrUnauthorized.Msg())
		return
	}

	cityID := c.Param("cityId")
	transport.SetCity(ctx, cityID)
	resp, err := h.session.Service.Rates(ctx, pid, cityID)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.RatesView{Rates: resp.Rates})
}

func (h *HttpHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	pid, ok := middleware.PlayerID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, errx.ErrUnauthorized.Msg())
		return
	}

	if err := h.session.Service.Logout(ctx, pid); err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code transport.BizCode, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(int(code), msg, ""))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg, reason := h.session.HandleError(ctx, err)
	c.JSON(nethttp.StatusOK, dto.Error(code, msg, reason))
}

package middleware

import (
	"IdleCity/internal/shared/security"
	"IdleCity/internal/shared/transport"
	"IdleCity/modules/kit/errx"
	"IdleCity/modules/kit/tracex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxKeyPlayerID = "player_id"

// Auth 校验 Bearer Token，把 player_id 写进 gin.Context 和 request ctx。
// websocket 握手时浏览器不能自定义 header，允许用 ?token= 传。
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			abortUnauthorized(c, "missing token")
			return
		}
		_, claims, err := security.ParseToken(token)
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			abortUnauthorized(c, "token expired")
			return
		case err != nil:
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(CtxKeyPlayerID, claims.PlayerID)
		c.Request = c.Request.WithContext(tracex.WithPlayerID(c.Request.Context(), claims.PlayerID))
		c.Next()
	}
}

// PlayerID 读出 Auth 写入的玩家 id。
func PlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxKeyPlayerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

func abortUnauthorized(c *gin.Context, reason string) {
	transport.SetErrorReason(c.Request.Context(), reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": transport.Unauthorized,
		"msg":  errx.ErrUnauthorized.Msg(),
	})
}

package middleware

import (
	"IdleCity/internal/shared/transport"
	"IdleCity/modules/kit/logx"
	"IdleCity/modules/kit/tracex"
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 这些路径不写访问日志（探活太频繁）。
var quietPaths = map[string]struct{}{
	"/healthz": {},
}

// bodyCaptureWriter 只缓存响应体的前 maxCapture 字节，够解析 code/reason 即可。
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

const maxCapture = 4 << 10

func (w *bodyCaptureWriter) capture(p []byte) {
	if room := maxCapture - w.body.Len(); room > 0 {
		w.body.Write(p[:min(room, len(p))])
	}
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个请求一条访问日志。业务码和拒绝原因从响应体的 code/reason 读，
// 读不到时按 HTTP 状态码推断。websocket 升级请求不捕获响应体。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, quiet := quietPaths[c.Request.URL.Path]; quiet {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := c.Request.Context()
		if tid := c.GetHeader(tracex.HeaderTraceID); tracex.ValidTraceID(tid) {
			ctx = tracex.WithTraceID(ctx, tid)
		}
		ctx = transport.NewContextWithParent(ctx, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(tracex.HeaderTraceID, tid)
		}

		var bw *bodyCaptureWriter
		if c.GetHeader("Upgrade") != "websocket" {
			bw = &bodyCaptureWriter{ResponseWriter: c.Writer}
			c.Writer = bw
		}

		c.Next()

		// Auth 之后的 ctx 才带 player_id，AccessLog 指针是同一个
		ctx = c.Request.Context()
		var body []byte
		if bw != nil {
			body = bw.body.Bytes()
		}
		if out, ok := parseResp(body); ok {
			transport.SetBizCode(ctx, transport.BizCode(out.code))
			transport.SetRejectReason(ctx, out.reason)
		} else {
			transport.SetBizCode(ctx, codeFromStatus(c.Writer.Status()))
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func codeFromStatus(status int) transport.BizCode {
	switch {
	case status < http.StatusBadRequest:
		return transport.OK
	case status == http.StatusUnauthorized:
		return transport.Unauthorized
	case status < http.StatusInternalServerError:
		return transport.InvalidParam
	default:
		return transport.SystemError
	}
}

type respSummary struct {
	code   int
	reason string
}

func parseResp(body []byte) (respSummary, bool) {
	if len(body) == 0 {
		return respSummary{}, false
	}
	var payload struct {
		Code   *int   `json:"code"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return respSummary{}, false
	}
	return respSummary{code: *payload.Code, reason: payload.Reason}, true
}

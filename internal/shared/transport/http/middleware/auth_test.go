package middleware

import (
	"IdleCity/internal/shared/security"
	"IdleCity/internal/shared/transport"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(), func(c *gin.Context) {
		id, _ := PlayerID(c)
		c.JSON(http.StatusOK, gin.H{"code": 0, "player_id": id})
	})
	return r
}

func TestAuth_缺少token返回401(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	w := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got=%d", w.Code)
	}
}

func TestAuth_合法token放行(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	token, err := security.Award(11)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newAuthEngine().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestParseResp_读取响应体code和reason(t *testing.T) {
	out, ok := parseResp([]byte(`{"code":409,"msg":"x","reason":"HERO_NOT_FOUND"}`))
	if !ok || out.code != 409 || out.reason != "HERO_NOT_FOUND" {
		t.Fatalf("out=%+v ok=%v", out, ok)
	}
	if _, ok := parseResp([]byte(`not json`)); ok {
		t.Fatalf("非 json 不应解析成功")
	}
	if _, ok := parseResp([]byte(`{"status":"ok"}`)); ok {
		t.Fatalf("没有 code 字段不应解析成功")
	}
}

func TestCodeFromStatus_按状态码推断(t *testing.T) {
	cases := map[int]transport.BizCode{
		http.StatusOK:                  transport.OK,
		http.StatusUnauthorized:        transport.Unauthorized,
		http.StatusNotFound:            transport.InvalidParam,
		http.StatusInternalServerError: transport.SystemError,
	}
	for status, want := range cases {
		if got := codeFromStatus(status); got != want {
			t.Fatalf("status=%d got=%d want=%d", status, got, want)
		}
	}
}

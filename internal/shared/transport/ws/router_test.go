package ws

import (
	"context"
	"testing"

	"IdleCity/internal/shared/transport"
	"IdleCity/modules/kit/tracex"
)

type fakeConn struct {
	props map[string]any
}

func (c *fakeConn) SetProperty(key string, value any) {
	c.props[key] = value
}

func (c *fakeConn) GetProperty(key string) any {
	return c.props[key]
}

func (c *fakeConn) RemoveProperty(key string) {
	delete(c.props, key)
}

func (c *fakeConn) Addr() string { return "test" }

func (c *fakeConn) Push(string, any) bool { return true }

func (c *fakeConn) Close() {}

func (c *fakeConn) Done() <-chan struct{} { return nil }

func newReq(name string, msg any) (*WsMsgReq, *WsMsgResp) {
	conn := &fakeConn{props: map[string]any{ConnKeyPlayerID: int64(9)}}
	return &WsMsgReq{Body: &ReqBody{Seq: 1, Name: name, Msg: msg}, Conn: conn},
		&WsMsgResp{Body: &RespBody{Seq: 1, Name: name}}
}

func TestRouter_分发到处理器并带上玩家ID(t *testing.T) {
	r := NewRouter(nil)
	var gotPlayer int64
	r.Group("city").Handle("state", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		gotPlayer, _ = tracex.PlayerIDFrom(ctx)
		resp.Body.Code = int(transport.OK)
		resp.Body.Msg = "ok"
	})

	req, resp := newReq("city.state", nil)
	r.Dispatch(req, resp)

	if resp.Body.Code != int(transport.OK) || resp.Body.Msg != "ok" {
		t.Fatalf("resp=%+v", resp.Body)
	}
	if gotPlayer != 9 {
		t.Fatalf("player id=%d, want 9", gotPlayer)
	}
}

func TestRouter_未知路由(t *testing.T) {
	r := NewRouter(nil)
	r.Group("city").Handle("state", func(context.Context, *WsMsgReq, *WsMsgResp) {})

	for _, name := range []string{"city", "city.", "hero.state", "city.nope", "a.b.c"} {
		req, resp := newReq(name, nil)
		r.Dispatch(req, resp)
		if resp.Body.Code != int(transport.InvalidParam) {
			t.Fatalf("name=%q code=%d, want %d", name, resp.Body.Code, transport.InvalidParam)
		}
	}
}

func TestRouter_处理器漏设结果时是系统错误(t *testing.T) {
	r := NewRouter(nil)
	r.Group("city").Handle("state", func(context.Context, *WsMsgReq, *WsMsgResp) {})

	req, resp := newReq("city.state", nil)
	r.Dispatch(req, resp)
	if resp.Body.Code != int(transport.SystemError) {
		t.Fatalf("code=%d, want %d", resp.Body.Code, transport.SystemError)
	}
}

func TestBindMsg_宽松解码(t *testing.T) {
	type selectReq struct {
		CityID string `mapstructure:"cityId"`
		Count  int    `mapstructure:"count"`
	}
	req, _ := newReq("city.select", map[string]any{"cityId": "city-2", "count": "3"})

	var got selectReq
	if err := BindMsg(req, &got); err != nil {
		t.Fatalf("BindMsg: %v", err)
	}
	if got.CityID != "city-2" || got.Count != 3 {
		t.Fatalf("got=%+v", got)
	}
}

func TestBindMsg_空请求(t *testing.T) {
	if err := BindMsg(nil, &struct{}{}); err == nil {
		t.Fatalf("want error for nil request")
	}
}

func TestRouter_处理器panic只影响当前消息(t *testing.T) {
	r := NewRouter(nil)
	g := r.Group("city")
	g.Handle("boom", func(context.Context, *WsMsgReq, *WsMsgResp) {
		panic("boom")
	})
	g.Handle("state", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		resp.Body.Code = int(transport.OK)
	})

	req, resp := newReq("city.boom", nil)
	r.Dispatch(req, resp)
	if resp.Body.Code != int(transport.SystemError) {
		t.Fatalf("code=%d, want %d", resp.Body.Code, transport.SystemError)
	}

	req, resp = newReq("city.state", nil)
	r.Dispatch(req, resp)
	if resp.Body.Code != int(transport.OK) {
		t.Fatalf("code=%d, want ok", resp.Body.Code)
	}
}

func TestRouter_连接ctx取消传给处理器(t *testing.T) {
	r := NewRouter(nil)
	var gotErr error
	r.Group("city").Handle("state", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		gotErr = ctx.Err()
		resp.Body.Code = int(transport.OK)
	})

	parent, cancel := context.WithCancel(context.Background())
	cancel()
	req, resp := newReq("city.state", nil)
	r.DispatchContext(parent, req, resp)
	if gotErr != context.Canceled {
		t.Fatalf("ctx err=%v, want canceled", gotErr)
	}
}

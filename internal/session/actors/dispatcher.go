package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

// Handler 是类型擦除后的处理函数。
type Handler func(ctx actor.Context, s *SessionActor, msg any)

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleSelectCity)
	register(d, SH.HandleApplyAction)
	register(d, SH.HandleGetState)
	register(d, SH.HandleGetRates)
	register(d, SH.HandleAdvanceTick)
	register(d, SH.HandleLogout)
}

// register 注册处理函数，要求 Req 是指针消息。
func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, s *SessionActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	d.handlers[reqType] = func(ctx actor.Context, s *SessionActor, msg any) {
		fn(ctx, s, msg.(Req))
	}
}

// Dispatch 返回 false 表示没有对应的处理函数。
func (d *Dispatcher) Dispatch(ctx actor.Context, s *SessionActor, msg any) bool {
	h, ok := d.handlers[reflect.TypeOf(msg)]
	if !ok {
		return false
	}
	h(ctx, s, msg)
	return true
}

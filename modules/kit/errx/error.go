package errx

import (
	"errors"
	"fmt"
	"runtime"
)

// Code 是错误的稳定标识，日志、HTTP 响应、客户端提示都按 code 区分语义。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Reason 只暴露一个原因码，用于在同一个 code 下细分拒绝原因。
type Reason interface {
	ReasonCode() string
}

// Error 是游戏服务统一的错误模型：
// - code/msg：对外语义
// - data：上下文（只读，派生时复制）
// - cause：底层错误链，只用于排障
// - stack：只有系统类错误在第一次挂 cause 时捕获
//
// 业务拒绝（资源不足、英雄已派驻……）是高频的正常路径，使用 biz 类，不抓栈。
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := string(e.code)
	if e.msg != "" {
		head = fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	if r := e.Reason(); r != "" {
		head = fmt.Sprintf("%s (%s)", head, r)
	}
	if e.cause == nil {
		return head
	}
	return fmt.Sprintf("%s: %v", head, e.cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只按 code 判断语义是否相同，忽略 msg/data/cause。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	return string(e.Code())
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// IsBiz 表示这是一次业务拒绝而不是故障。
func (e *Error) IsBiz() bool {
	return e != nil && e.kind == kindBiz
}

// Data 返回上下文的拷贝。
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return cloneAnyMap(e.data)
}

// Reason 返回 data.reason 中的原因码。
func (e *Error) Reason() string {
	if e == nil || e.data == nil {
		return ""
	}
	s, _ := e.data["reason"].(string)
	return s
}

func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	out := make([]uintptr, len(e.stack))
	copy(out, e.stack)
	return out
}

func (e *Error) derive() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		data:  cloneAnyMap(e.data),
		cause: e.cause,
		stack: e.Stack(),
		kind:  e.kind,
	}
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.derive()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

// WithReason 等价于 WithData("reason", reason.ReasonCode())。
func (e *Error) WithReason(reason Reason) *Error {
	if reason == nil {
		return e.WithData("reason", "")
	}
	return e.WithData("reason", reason.ReasonCode())
}

func (e *Error) WithCause(cause error) *Error {
	next := e.derive()
	next.cause = cause
	// 下层已经带栈时不再重复捕获。
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

// ReasonOf 沿错误链找到第一个带原因码的 *Error。
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason()
	}
	return ""
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func captureStack(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	for i := 0; i < 32 && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

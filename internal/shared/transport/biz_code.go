package transport

import (
	"errors"

	"IdleCity/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体里的业务码：0 成功，1~499 玩家侧问题，>=500 服务端问题。
const (
	OK            BizCode = 0
	InvalidParam  BizCode = 400
	Unauthorized  BizCode = 401
	Rejected      BizCode = 409
	SystemError   BizCode = 500
	Unavailable   BizCode = 503
	RequestTimout BizCode = 504
)

// CodeOf 把 errx 错误映射成业务码。
func CodeOf(err error) BizCode {
	if err == nil {
		return OK
	}
	var e *errx.Error
	if !errors.As(err, &e) {
		return SystemError
	}
	switch e.Code() {
	case errx.CodeRejected:
		return Rejected
	case errx.CodeReqParamError:
		return InvalidParam
	case errx.CodeUnauthorized:
		return Unauthorized
	case errx.CodeUnavailable:
		return Unavailable
	case errx.CodeTimeout:
		return RequestTimout
	default:
		return SystemError
	}
}

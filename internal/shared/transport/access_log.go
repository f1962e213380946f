package transport

import (
	"IdleCity/modules/kit/logx"
	"IdleCity/modules/kit/tracex"
	"context"
	"time"

	"go.uber.org/zap"
)

// SlowThreshold 以上的请求在访问日志里带 slow=true，离线补算多的选城请求通常落在这里。
var SlowThreshold = 200 * time.Millisecond

// AccessLog 是一次请求（HTTP 或一条 ws 消息）的日志上下文。
type AccessLog struct {
	BizCode BizCode

	// Reject 是业务拒绝原因（HERO_NOT_FOUND 之类），Fault 是系统侧失败的描述，二者互斥。
	Reject    string
	Fault     string
	CityID    string
	startTime time.Time
	action    string
}

type accessLogKey struct{}

// NewContextWithParent 在 parent 上挂一个新的 AccessLog，没有 trace id 时顺便生成。
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		if traceID := tracex.NewTraceID(); traceID != "" {
			ctx = tracex.WithTraceID(ctx, traceID)
		}
	}
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode:   SystemError,
		startTime: time.Now(),
		action:    action,
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetRejectReason 记录业务拒绝原因。
func SetRejectReason(ctx context.Context, reason string) {
	if al := FromContext(ctx); al != nil && reason != "" {
		al.Reject, al.Fault = reason, ""
	}
}

// SetErrorReason 记录系统侧失败原因。
func SetErrorReason(ctx context.Context, reason string) {
	if al := FromContext(ctx); al != nil && reason != "" {
		al.Fault, al.Reject = reason, ""
	}
}

// SetCity 记录请求作用的城市。
func SetCity(ctx context.Context, cityID string) {
	if al := FromContext(ctx); al != nil {
		al.CityID = cityID
	}
}

// WriteAccessLog 在请求结束后调用一次。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	latency := time.Since(al.startTime)
	fields := []zap.Field{zap.Duration("latency", latency)}
	if latency >= SlowThreshold {
		fields = append(fields, zap.Bool("slow", true))
	}
	if al.CityID != "" {
		fields = append(fields, zap.String("city_id", al.CityID))
	}
	switch {
	case al.BizCode == OK:
		fields = append(fields, zap.String("result", "success"))
	case al.BizCode == Rejected || al.Reject != "":
		fields = append(fields, zap.String("result", "rejected"), zap.String("reason", al.Reject))
	default:
		fields = append(fields, zap.String("result", "failure"))
		if al.Fault != "" {
			fields = append(fields, zap.String("error_reason", al.Fault))
		}
	}
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}

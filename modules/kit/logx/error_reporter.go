package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RejectLog 是玩家操作被拒绝时的日志输入。
type RejectLog struct {
	Action string
	Reason string
	Err    error
}

// SysLog 是技术错误日志的输入。
type SysLog struct {
	Action string
	Err    error
}

func NewRejectLog(action string, err error) RejectLog {
	meta := BuildErrorLog(err)
	return RejectLog{Action: action, Reason: meta.Reason, Err: err}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccess 记录访问日志：
// - biz_code == 0: INFO
// - biz_code  1~499: WARN
// - biz_code >= 500: ERROR
func ReportAccess(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := []zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}
	base = append(base, fields...)
	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportRejection 记录玩家操作被拒绝：INFO、err_type=biz、不带堆栈。
// 拒绝是正常路径（按钮本该是灰的），不能按错误级别打。
func ReportRejection(ctx context.Context, l Logger, rej RejectLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := rej.Action
	if action == "" {
		action = "action_reject"
	}
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if rej.Reason != "" {
		base = append(base, zap.String("reason", rej.Reason))
	}
	if rej.Err != nil {
		base = append(base, zap.String("biz_message", rej.Err.Error()))
	}
	base = append(base, fields...)

	msg := action
	if rej.Reason != "" {
		msg = fmt.Sprintf("%s, reason:%s", action, rej.Reason)
	}
	l.WithContext(ctx).Info(msg, base...)
}

// ReportSysError 记录技术错误：ERROR、err_type=sys，带 cause 链和发生处栈。
func ReportSysError(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := sys.Action
	if action == "" {
		action = "sys_error"
	}
	meta := BuildErrorLog(sys.Err)
	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	msg := fmt.Sprintf("%s, error:%s", action, meta.Error)
	if meta.Reason != "" {
		msg = fmt.Sprintf("%s, reason:%s, error:%s", action, meta.Reason, meta.Error)
	}
	l.WithContext(ctx).Error(msg, base...)
}

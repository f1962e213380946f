package errx

import (
	"errors"
	"testing"
)

type testReason string

func (r testReason) ReasonCode() string { return string(r) }

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := ErrRejected.WithReason(testReason("HERO_NOT_FOUND"))
	e2 := ErrRejected.WithReason(testReason("CITY_NOT_FOUND")).WithCause(errors.New("x"))
	if !errors.Is(e1, e2) {
		t.Fatalf("期望同 code 的错误 errors.Is 为 true, e1=%v e2=%v", e1, e2)
	}
	if errors.Is(e1, ErrInternal) {
		t.Fatalf("期望不同 code 不相等")
	}
}

func TestError_业务拒绝不捕获栈(t *testing.T) {
	err := ErrRejected.WithCause(errors.New("not enough gold"))
	if err.Stack() != nil {
		t.Fatalf("期望业务错误不带栈")
	}
	if !err.IsBiz() {
		t.Fatalf("期望 IsBiz 为 true")
	}
}

func TestError_系统错误只捕获一次栈(t *testing.T) {
	sys := ErrUnavailable.WithCause(errors.New("mongo down"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	outer := ErrInternal.WithCause(sys)
	if outer.Stack() != nil {
		t.Fatalf("期望 cause 链已有栈时不重复捕获")
	}
}

func TestError_派生不污染哨兵(t *testing.T) {
	_ = ErrRejected.WithData("city_id", "city-1")
	if ErrRejected.Data() != nil {
		t.Fatalf("期望哨兵错误的 data 保持为空, got=%v", ErrRejected.Data())
	}
}

func TestReasonOf_沿错误链查找(t *testing.T) {
	inner := ErrRejected.WithReason(testReason("INSUFFICIENT_RESOURCES"))
	wrapped := ErrInternal.WithCause(inner)
	if got := ReasonOf(wrapped); got != "" {
		// errors.As 命中最外层 *Error，外层没有 reason
		t.Fatalf("期望命中最外层错误, got=%q", got)
	}
	if got := ReasonOf(inner); got != "INSUFFICIENT_RESOURCES" {
		t.Fatalf("reason=%q", got)
	}
}

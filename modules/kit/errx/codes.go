package errx

// 跨模块统一的错误码。
//
// 约束：
// - 这里只放系统类错误码和“前置条件不满足”这一类通用拒绝码
// - 具体拒绝原因（HERO_NOT_FOUND、INSUFFICIENT_RESOURCES ...）由各业务包用 Reason 表达

const (
	// CodeRejected 表示玩家操作的前置条件不满足，状态保持不变。
	CodeRejected Code = "ACTION_REJECTED"
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（存储、actor 系统等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeCorruptSave 表示存档无法解码。
	CodeCorruptSave Code = "CORRUPT_SAVE"
	// CodeReqParamError 表示请求参数错误。
	CodeReqParamError Code = "REQ_PARAM_ERROR"
	// CodeUnauthorized 表示缺少或无效的玩家令牌。
	CodeUnauthorized Code = "UNAUTHORIZED"
)

var (
	ErrRejected     = NewBiz(CodeRejected, "操作条件不满足")
	ErrInternal     = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable  = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout      = NewSys(CodeTimeout, "请求超时")
	ErrCorruptSave  = NewSys(CodeCorruptSave, "存档损坏")
	ErrReqParamERR  = NewBiz(CodeReqParamError, "请求参数错误")
	ErrUnauthorized = NewBiz(CodeUnauthorized, "未登录或令牌无效")
)

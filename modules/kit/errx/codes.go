package errx

// 跨服务统一的系统类错误码。业务域错误码由各业务自己定义，不放在 kit 里。
const (
	// CodeInternal 不可预期的内部错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用：存储、actor、下游服务等。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求或依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
	// CodeUnauthorized 缺少或无效的会话令牌。
	CodeUnauthorized Code = "UNAUTHORIZED"
)

// 哨兵错误，只能通过 WithData/WithCause 派生，不能原地修改。
var (
	ErrInternal     = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable  = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout      = NewSys(CodeTimeout, "请求超时")
	ErrReqParamERR  = NewBiz(CodeReqParamError, "请求参数错误")
	ErrUnauthorized = NewBiz(CodeUnauthorized, "会话无效或已过期")
)

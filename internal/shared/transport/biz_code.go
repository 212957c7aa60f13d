package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 客户端可见的业务码。>= 500 的按系统错误打 ERROR 日志。
const (
	OK               = 0
	InvalidParam     = 1
	SessionInvalid   = 2
	InventoryFull    = 101
	ViewportTooLarge = 102
	SystemError      = 500
	Unavailable      = 503
	Timeout          = 504
)

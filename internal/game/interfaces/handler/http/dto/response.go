package dto

// Resp 是 HTTP 统一响应体，access 日志从 code 字段取业务码。
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Resp {
	return Resp{Code: code, Data: data}
}

func Error(code int, msg string) Resp {
	return Resp{Code: code, Msg: msg}
}

// ErrorWithData 用于拒绝时仍需带回当前状态的场景（例如背包已满）。
func ErrorWithData(code int, msg string, data any) Resp {
	return Resp{Code: code, Msg: msg, Data: data}
}

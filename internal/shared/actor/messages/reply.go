package messages

// Reply 是 actor 对请求的统一应答。Err 非空时 Body 仍可能携带状态（例如被拒绝的交换）。
type Reply struct {
	Body any
	Err  error
}

func OK(body any) *Reply {
	return &Reply{Body: body}
}

func Fail(err error) *Reply {
	return &Reply{Err: err}
}

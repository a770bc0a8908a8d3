package order

// Status 远端返回的订单状态，本地不校验取值范围。
type Status string

const (
	StatusPlaced            Status = "PLACED"
	StatusBeingFulfilled    Status = "BEING_FULFILLED"
	StatusFulfilled         Status = "FULFILLED"
	StatusFailed            Status = "FAILED"
	StatusFailedPermanently Status = "FAILED_PERMANENTLY"
)

// IsFinal 判断是否是终态
func (s Status) IsFinal() bool {
	return s == StatusFulfilled || s.IsFailed()
}

// IsFailed 失败终态
func (s Status) IsFailed() bool {
	switch s {
	case StatusFailed, StatusFailedPermanently:
		return true
	default:
		return false
	}
}

// InProgress 仍在处理中，需要继续轮询
func (s Status) InProgress() bool {
	switch s {
	case StatusPlaced, StatusBeingFulfilled:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

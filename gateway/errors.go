package gateway

import (
	"errors"
	"fmt"
)

// ErrRemote 所有非成功响应的哨兵错误，配合 errors.Is 使用。
var ErrRemote = errors.New("remote request failed")

// RemoteError 记录失败请求及服务端返回的原始内容。
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

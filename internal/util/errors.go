package util

import "errors"

// 服务层错误的封闭集合。controller 通过 errors.Is 映射到 HTTP 状态码，
// 不做任何消息文本匹配。
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource conflict")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrUpstream           = errors.New("upstream service error")
)

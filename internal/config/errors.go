package config

import (
	"errors"
	"fmt"
)

// ErrInvalid 是所有配置错误的根错误，便于调用方用 errors.Is 统一判断。
var ErrInvalid = errors.New("invalid configuration")

// FieldError 提供字段路径与错误原因，便于 CLI 向用户反馈。
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap 使 FieldError 可以匹配 ErrInvalid。
func (e FieldError) Unwrap() error {
	return ErrInvalid
}

// newFieldError 创建包含字段路径与原因的 error，便于 CLI 定位。
func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}

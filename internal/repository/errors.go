package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath 表示路径包含 .. 段，或在要求文件时为空。
	ErrInvalidPath = errors.New("invalid content path")
	// ErrNotFound 表示文件或目录不存在，或解析后落在内容根目录之外。
	ErrNotFound = errors.New("content not found")
	// ErrConfiguration 表示来源选择或远端仓库配置不完整。
	ErrConfiguration = errors.New("content repository misconfigured")
	// ErrNetwork 表示远端请求失败：传输错误、超时或非成功状态码。
	ErrNetwork = errors.New("content fetch failed")
)

// StatusError 记录远端返回的非成功状态码。它总是匹配 ErrNetwork，
// 404 时额外匹配 ErrNotFound。
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

// Is 让 errors.Is 可以按语义分类。
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return true
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}

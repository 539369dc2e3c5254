package repository

import (
	"fmt"
	"strings"
)

// normalizePath 将调用方提供的相对路径规整为不带前导斜杠、不含 .. 段的形式。
// allowDir 为 true 时允许空路径（表示内容根目录）。
func normalizePath(raw string, allowDir bool) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")

	segments := strings.Split(cleaned, "/")
	kept := segments[:0]
	for _, segment := range segments {
		switch segment {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q traverses directories", ErrInvalidPath, raw)
		}
		kept = append(kept, segment)
	}

	normalized := strings.Join(kept, "/")
	if normalized == "" && !allowDir {
		return "", fmt.Errorf("%w: a file path must be provided", ErrInvalidPath)
	}
	return normalized, nil
}

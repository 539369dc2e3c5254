package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Document 是拆分后的 Markdown 文件：YAML 元数据与正文。
type Document struct {
	Meta map[string]any
	Body string
}

// ParseError 表示某个内容文件的 frontmatter 或字段无法解析。
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse content: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Split 拆分 frontmatter 与正文。文本不以 --- 开头或找不到结束分隔符时，
// 元数据为空且正文为原文；YAML 语法错误返回 *ParseError。
func Split(text string) (Document, error) {
	if !strings.HasPrefix(text, frontmatterDelimiter) {
		return Document{Meta: map[string]any{}, Body: text}, nil
	}

	end := strings.Index(text[len(frontmatterDelimiter):], frontmatterDelimiter)
	if end < 0 {
		return Document{Meta: map[string]any{}, Body: text}, nil
	}
	end += len(frontmatterDelimiter)

	raw := strings.TrimSpace(text[len(frontmatterDelimiter):end])
	body := strings.TrimSpace(text[end+len(frontmatterDelimiter):])

	meta := map[string]any{}
	if raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
			return Document{}, &ParseError{Err: fmt.Errorf("frontmatter: %w", err)}
		}
		if meta == nil {
			meta = map[string]any{}
		}
	}
	return Document{Meta: meta, Body: body}, nil
}

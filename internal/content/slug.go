package content

import (
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSeparate = regexp.MustCompile(`[\s_-]+`)
)

// Slugify 生成 URL 友好的 slug：小写，去掉除空白和连字符外的非单词字符，
// 将空白、下划线与连字符序列合并为单个 "-"，并去掉首尾的 "-"。
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	slug = slugSeparate.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

package content

import (
	"bytes"
	"html"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// DefaultRenderCacheSize 是渲染结果 LRU 的默认容量。
const DefaultRenderCacheSize = 512

// Renderer 将 Markdown 渲染为经过白名单过滤的 HTML，并按原文缓存结果。
// 原始 HTML 不会透传。可并发使用。
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	memo   *lru.Cache[string, string]
}

// NewRenderer 构造渲染器；size <= 0 时使用默认容量。
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultRenderCacheSize
	}
	memo, err := lru.New[string, string](size)
	if err != nil {
		panic(err)
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.TaskList,
				extension.Footnote,
				extension.Linkify,
				extension.Typographer,
			),
		),
		policy: sanitizePolicy(),
		memo:   memo,
	}
}

func sanitizePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("code", "pre", "span")
	policy.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	policy.AllowAttrs("src", "alt", "title").OnElements("img")
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	policy.AllowURLSchemes("http", "https", "mailto")
	return policy
}

// Render 返回 src 对应的安全 HTML，空输入返回空串。
func (r *Renderer) Render(src string) string {
	if src == "" {
		return ""
	}
	if cached, ok := r.memo.Get(src); ok {
		return cached
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	out := r.policy.Sanitize(buf.String())
	r.memo.Add(src, out)
	return out
}

// RenderOptional 渲染可选字段，nil 或空串时返回 nil。
func (r *Renderer) RenderOptional(src *string) *string {
	if src == nil || *src == "" {
		return nil
	}
	out := r.Render(*src)
	return &out
}

package content

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const excerptLimit = 240

// BuildExcerpt 取正文第一段，渲染后转为纯文本，超过 240 个字符时截断并追加 "..."。
func BuildExcerpt(body string, renderer *Renderer) string {
	first := firstParagraph(body)
	if first == "" {
		return ""
	}
	text := PlainText(renderer.Render(first))
	if text == "" {
		text = first
	}
	return truncate(text, excerptLimit)
}

func firstParagraph(body string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	if idx := strings.Index(trimmed, "\n\n"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var blockTags = map[string]bool{
	"p": true, "br": true, "li": true, "div": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true,
}

// PlainText 提取 HTML 片段中的文本节点，并将连续空白折叠为单个空格。
func PlainText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if blockTags[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:limit]), " \t\n") + "..."
}

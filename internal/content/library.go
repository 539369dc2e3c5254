package content

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/folio-hub/folio/internal/logging"
	"github.com/folio-hub/folio/internal/repository"
)

// DefaultBlogDir 是博客文章所在的相对目录。
const DefaultBlogDir = "blogs"

// Source 是 Library 读取原始 Markdown 的来源，通常为 *repository.Repository。
type Source interface {
	ReadText(ctx context.Context, relativePath string) (string, error)
	ListMarkdownFiles(ctx context.Context, relativeDir string) ([]string, error)
}

// Options 控制 Library 的可选行为，零值可用。
type Options struct {
	Renderer      *Renderer
	Logger        *logrus.Logger
	Now           func() time.Time
	BlogDir       string
	IncludeMedium bool
}

// Library 基于 Source 加载个人简介与博客文章。每次调用都会经过 Source 读取，
// 缓存与刷新策略由 Source 负责。
type Library struct {
	source        Source
	renderer      *Renderer
	logger        *logrus.Logger
	now           func() time.Time
	blogDir       string
	includeMedium bool
}

func NewLibrary(source Source, opts Options) *Library {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = NewRenderer(DefaultRenderCacheSize)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	blogDir := opts.BlogDir
	if blogDir == "" {
		blogDir = DefaultBlogDir
	}

	return &Library{
		source:        source,
		renderer:      renderer,
		logger:        logger,
		now:           now,
		blogDir:       blogDir,
		includeMedium: opts.IncludeMedium,
	}
}

// document 读取并拆分单个文件；文件不存在时返回空文档。
func (l *Library) document(ctx context.Context, rel string) (Document, error) {
	text, err := l.source.ReadText(ctx, rel)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Document{Meta: map[string]any{}}, nil
		}
		return Document{}, err
	}
	return parseDocument(rel, text)
}

func parseDocument(rel, text string) (Document, error) {
	doc, err := Split(text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = rel
		}
		return Document{}, err
	}
	return doc, nil
}

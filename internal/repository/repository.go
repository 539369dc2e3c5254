package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/folio-hub/folio/internal/cache"
	"github.com/folio-hub/folio/internal/config"
	"github.com/folio-hub/folio/internal/logging"
)

// backend 是本地 / 远端两种内容来源的统一形态，由 New 在构造时选定一次。
type backend interface {
	readText(ctx context.Context, rel string) (string, error)
	listFiles(ctx context.Context, dir string) ([]string, error)
	reset()
	source() config.Source
}

// Options 注入可替换的依赖，零值即生产默认值。
type Options struct {
	// Client 用于 remote 来源；为空时创建 10s 超时的独立客户端。
	Client *http.Client
	// Fs 用于 local 来源；为空时使用真实文件系统。
	Fs afero.Fs
	// RawBaseURL/APIBaseURL 覆盖 GitHub 地址，主要用于测试或自建 GitHub。
	RawBaseURL string
	APIBaseURL string
	Logger     *logrus.Logger
	Now        func() time.Time
}

// Repository 是所有内容加载器共享的内容仓库，持有唯一的缓存实例。
type Repository struct {
	backend backend
	store   *cache.Store
	logger  *logrus.Logger
}

// New 根据配置选择后端；来源既不是 local 也不是 remote 时返回 ErrConfiguration。
func New(cfg config.ContentConfig, opts Options) (*Repository, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := cache.NewStore()

	var (
		selected backend
		err      error
	)
	switch cfg.Source {
	case config.SourceLocal:
		selected, err = newLocalBackend(cfg.LocalPath, opts.Fs, store, now, logger)
	case config.SourceRemote:
		selected, err = newRemoteBackend(cfg, opts, store, now, logger)
	default:
		err = fmt.Errorf("%w: source must be %q or %q, got %q", ErrConfiguration, config.SourceLocal, config.SourceRemote, cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	return &Repository{
		backend: selected,
		store:   store,
		logger:  logger,
	}, nil
}

// Source 返回当前生效的内容来源。
func (r *Repository) Source() config.Source {
	return r.backend.source()
}

// ReadText 读取相对路径对应的文本内容。
func (r *Repository) ReadText(ctx context.Context, relativePath string) (string, error) {
	normalized, err := normalizePath(relativePath, false)
	if err != nil {
		return "", err
	}
	return r.backend.readText(ctx, normalized)
}

// ListMarkdownFiles 列出目录下的全部文件名（不递归）。是否为 Markdown 由调用方过滤。
func (r *Repository) ListMarkdownFiles(ctx context.Context, relativeDir string) ([]string, error) {
	normalized, err := normalizePath(relativeDir, true)
	if err != nil {
		return nil, err
	}
	return r.backend.listFiles(ctx, normalized)
}

// ClearCache 原子地丢弃全部文件与目录缓存，并重置远端连接池。可重复调用。
func (r *Repository) ClearCache() {
	before := r.store.Stats()
	r.store.Clear()
	r.backend.reset()
	r.logger.WithFields(logrus.Fields{
		"action":      "cache_clear",
		"source":      string(r.Source()),
		"files":       before.Files,
		"directories": before.Directories,
	}).Info("content cache cleared")
}

// Stats 返回当前缓存条目数量。
func (r *Repository) Stats() cache.Stats {
	return r.store.Stats()
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/folio-hub/folio/internal/cache"
	"github.com/folio-hub/folio/internal/config"
	"github.com/folio-hub/folio/internal/logging"
	"github.com/folio-hub/folio/internal/version"
)

const (
	defaultRawBaseURL = "https://raw.githubusercontent.com"
	defaultAPIBaseURL = "https://api.github.com"
	githubAccept      = "application/vnd.github+json"

	// maxRemoteBody 限制单个 Markdown 文件或目录列表的响应体大小。
	maxRemoteBody = 8 << 20
)

// remoteBackend 通过 GitHub raw/contents API 读取内容，在刷新间隔内直接复用缓存，
// 过期后携带 If-None-Match 做条件请求。
type remoteBackend struct {
	client  *http.Client
	rawBase string
	apiBase string

	repo    string
	branch  string
	subdir  string
	token   string
	refresh time.Duration

	store  *cache.Store
	flight singleflight.Group
	now    func() time.Time
	logger *logrus.Logger
}

// contentItem 对应 GitHub contents API 目录列表中的单个条目。
type contentItem struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func newRemoteBackend(cfg config.ContentConfig, opts Options, store *cache.Store, now func() time.Time, logger *logrus.Logger) (*remoteBackend, error) {
	repo := strings.Trim(strings.TrimSpace(cfg.GitHubRepo), "/")
	if repo == "" {
		return nil, fmt.Errorf("%w: remote repository identifier is required", ErrConfiguration)
	}
	branch := strings.TrimSpace(cfg.GitHubBranch)
	if branch == "" {
		branch = "main"
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &remoteBackend{
		client:  client,
		rawBase: baseURL(opts.RawBaseURL, defaultRawBaseURL),
		apiBase: baseURL(opts.APIBaseURL, defaultAPIBaseURL),
		repo:    repo,
		branch:  branch,
		subdir:  strings.Trim(strings.TrimSpace(cfg.GitHubSubdir), "/"),
		token:   strings.TrimSpace(cfg.GitHubToken),
		refresh: cfg.RefreshInterval.DurationValue(),
		store:   store,
		now:     now,
		logger:  logger,
	}, nil
}

func baseURL(override, fallback string) string {
	if trimmed := strings.TrimRight(strings.TrimSpace(override), "/"); trimmed != "" {
		return trimmed
	}
	return fallback
}

func (b *remoteBackend) source() config.Source {
	return config.SourceRemote
}

func (b *remoteBackend) readText(ctx context.Context, rel string) (string, error) {
	snap := b.store.Current()
	if cached, ok := snap.File(rel); ok && cached.Fresh(b.now(), b.refresh) {
		b.logger.WithFields(logging.RepositoryFields(string(config.SourceRemote), rel, true)).Debug("content_read")
		return cached.Content, nil
	}

	key := fmt.Sprintf("%p:file:%s", snap, rel)
	val, err := b.shared(ctx, key, func(detached context.Context) (interface{}, error) {
		return b.fetchFile(detached, snap, rel)
	})
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

func (b *remoteBackend) listFiles(ctx context.Context, dir string) ([]string, error) {
	snap := b.store.Current()
	if cached, ok := snap.Dir(dir); ok && cached.Fresh(b.now(), b.refresh) {
		b.logger.WithFields(logging.RepositoryFields(string(config.SourceRemote), dir, true)).Debug("content_list")
		return cached.Files, nil
	}

	key := fmt.Sprintf("%p:dir:%s", snap, dir)
	val, err := b.shared(ctx, key, func(detached context.Context) (interface{}, error) {
		return b.fetchDir(detached, snap, dir)
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), val.([]string)...), nil
}

// shared 合并同一 key 的并发回源。回源本身脱离调用方的取消信号继续执行，
// 以便结果写入缓存；调用方在自己的 ctx 结束时立即返回。
func (b *remoteBackend) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := b.flight.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (b *remoteBackend) fetchFile(ctx context.Context, snap *cache.Snapshot, rel string) (string, error) {
	cached, hasCached := snap.File(rel)
	if hasCached && cached.Fresh(b.now(), b.refresh) {
		return cached.Content, nil
	}

	target := b.rawURL(rel)
	etag := ""
	if hasCached {
		etag = cached.ETag
	}

	resp, err := b.do(ctx, target, etag)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	now := b.now()
	fields := logging.RepositoryFields(string(config.SourceRemote), rel, false)
	fields["status"] = resp.StatusCode

	switch {
	case resp.StatusCode == http.StatusNotModified && hasCached && etag != "":
		b.logger.WithFields(fields).Debug("content_not_modified")
		if entry, ok := snap.TouchFile(rel, etag, now); ok {
			return entry.Content, nil
		}
		return cached.Content, nil
	case isSuccess(resp.StatusCode):
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
		if err != nil {
			return "", fmt.Errorf("%w: read %s: %v", ErrNetwork, target, err)
		}
		content := string(body)
		snap.PutFile(rel, cache.FileEntry{
			Content:     content,
			ETag:        resp.Header.Get("ETag"),
			LastChecked: now,
		})
		b.logger.WithFields(fields).Debug("content_fetched")
		return content, nil
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRemoteBody))
		b.logger.WithFields(fields).Warn("content_fetch_failed")
		return "", &StatusError{StatusCode: resp.StatusCode, URL: target}
	}
}

func (b *remoteBackend) fetchDir(ctx context.Context, snap *cache.Snapshot, dir string) ([]string, error) {
	cached, hasCached := snap.Dir(dir)
	if hasCached && cached.Fresh(b.now(), b.refresh) {
		return cached.Files, nil
	}

	target := b.apiURL(dir)
	etag := ""
	if hasCached {
		etag = cached.ETag
	}

	resp, err := b.do(ctx, target, etag)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	now := b.now()
	fields := logging.RepositoryFields(string(config.SourceRemote), dir, false)
	fields["status"] = resp.StatusCode

	switch {
	case resp.StatusCode == http.StatusNotModified && hasCached && etag != "":
		b.logger.WithFields(fields).Debug("listing_not_modified")
		if entry, ok := snap.TouchDir(dir, etag, now); ok {
			return entry.Files, nil
		}
		return cached.Files, nil
	case isSuccess(resp.StatusCode):
		var items []contentItem
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxRemoteBody)).Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: decode listing %s: %v", ErrNetwork, target, err)
		}
		files := make([]string, 0, len(items))
		for _, item := range items {
			if item.Type == "file" {
				files = append(files, item.Name)
			}
		}
		snap.PutDir(dir, cache.DirEntry{
			Files:       files,
			ETag:        resp.Header.Get("ETag"),
			LastChecked: now,
		})
		b.logger.WithFields(fields).Debug("listing_fetched")
		return files, nil
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRemoteBody))
		b.logger.WithFields(fields).Warn("listing_fetch_failed")
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: target}
	}
}

func (b *remoteBackend) do(ctx context.Context, target, etag string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %v", ErrNetwork, target, err)
	}
	req.Header.Set("Accept", githubAccept)
	req.Header.Set("User-Agent", version.UserAgent())
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetwork, target, err)
	}
	return resp, nil
}

// reset 释放连接池中的空闲连接，下一次请求会重新建连，客户端对象本身保持不变。
func (b *remoteBackend) reset() {
	b.client.CloseIdleConnections()
}

// rawURL 形如 <raw>/<repo>/<branch>/<subdir>/<path>。
func (b *remoteBackend) rawURL(rel string) string {
	parts := []string{b.repo, b.branch}
	if b.subdir != "" {
		parts = append(parts, b.subdir)
	}
	parts = append(parts, rel)
	return b.rawBase + "/" + escapeSegments(strings.Join(parts, "/"))
}

// apiURL 形如 <api>/repos/<repo>/contents/<subdir>/<dir>?ref=<branch>。
func (b *remoteBackend) apiURL(dir string) string {
	var parts []string
	if b.subdir != "" {
		parts = append(parts, b.subdir)
	}
	if dir != "" {
		parts = append(parts, dir)
	}

	target := b.apiBase + "/repos/" + escapeSegments(b.repo) + "/contents"
	if len(parts) > 0 {
		target += "/" + escapeSegments(strings.Join(parts, "/"))
	}
	return target + "?" + url.Values{"ref": {b.branch}}.Encode()
}

func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/folio-hub/folio/internal/cache"
	"github.com/folio-hub/folio/internal/config"
	"github.com/folio-hub/folio/internal/logging"
)

// localBackend 从沙箱化的本地目录读取内容，以文件 mtime 判断缓存是否仍然有效。
type localBackend struct {
	fs       afero.Fs
	root     string
	realRoot string
	store    *cache.Store
	now      func() time.Time
	logger   *logrus.Logger
}

func newLocalBackend(root string, fsys afero.Fs, store *cache.Store, now func() time.Time, logger *logrus.Logger) (*localBackend, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: local content path is empty", ErrConfiguration)
	}
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	abs := filepath.Clean(root)
	if isOsFs(fsys) {
		resolved, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve local content path: %v", ErrConfiguration, err)
		}
		abs = resolved
	}

	realRoot := abs
	if isOsFs(fsys) {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			realRoot = resolved
		}
	}

	return &localBackend{
		fs:       fsys,
		root:     abs,
		realRoot: realRoot,
		store:    store,
		now:      now,
		logger:   logger,
	}, nil
}

func (b *localBackend) source() config.Source {
	return config.SourceLocal
}

func (b *localBackend) readText(ctx context.Context, rel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full, err := b.resolve(rel)
	if err != nil {
		return "", err
	}

	unlock := b.store.Lock("local:" + rel)
	defer unlock()

	snap := b.store.Current()
	info, err := b.fs.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			snap.DeleteFile(rel)
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", fmt.Errorf("stat %s: %w", rel, err)
	}
	if info.IsDir() {
		snap.DeleteFile(rel)
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, rel)
	}

	modTime := info.ModTime()
	if cached, ok := snap.File(rel); ok && cached.ModTime.Equal(modTime) {
		b.logger.WithFields(logging.RepositoryFields(string(config.SourceLocal), rel, true)).Debug("content_read")
		return cached.Content, nil
	}

	data, err := afero.ReadFile(b.fs, full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			snap.DeleteFile(rel)
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", fmt.Errorf("read %s: %w", rel, err)
	}

	content := string(data)
	snap.PutFile(rel, cache.FileEntry{
		Content:     content,
		ModTime:     modTime,
		LastChecked: b.now(),
	})
	b.logger.WithFields(logging.RepositoryFields(string(config.SourceLocal), rel, false)).Debug("content_read")
	return content, nil
}

func (b *localBackend) listFiles(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := b.resolve(dir)
	if err != nil {
		return nil, err
	}

	info, err := b.fs.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}

	entries, err := afero.ReadDir(b.fs, full)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Mode().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// reset 本地后端没有连接资源，清缓存由 Repository 统一完成。
func (b *localBackend) reset() {}

// resolve 将规整后的相对路径映射到根目录下的绝对路径；越界时返回 ErrNotFound。
// 使用真实文件系统时还会解析符号链接，防止通过链接逃出根目录。
func (b *localBackend) resolve(rel string) (string, error) {
	full := filepath.Join(b.root, filepath.FromSlash(rel))
	if !within(b.root, full) {
		return "", fmt.Errorf("%w: %s is outside of the content directory", ErrNotFound, rel)
	}

	if isOsFs(b.fs) {
		if resolved, err := filepath.EvalSymlinks(full); err == nil && !within(b.realRoot, resolved) {
			return "", fmt.Errorf("%w: %s is outside of the content directory", ErrNotFound, rel)
		}
	}
	return full, nil
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func isOsFs(fsys afero.Fs) bool {
	_, ok := fsys.(*afero.OsFs)
	return ok
}

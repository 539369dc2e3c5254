package content

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/folio-hub/folio/internal/config"
	"github.com/folio-hub/folio/internal/repository"
)

const contentRoot = "/content"

var fixedNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

// newMemLibrary 基于内存文件系统上的真实 Repository 构造 Library。
func newMemLibrary(t *testing.T, files map[string]string, opts Options) *Library {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(contentRoot, 0o755))
	for rel, body := range files {
		full := filepath.Join(contentRoot, rel)
		require.NoError(t, fsys.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, afero.WriteFile(fsys, full, []byte(body), 0o644))
	}

	repo, err := repository.New(config.ContentConfig{
		Source:    config.SourceLocal,
		LocalPath: contentRoot,
	}, repository.Options{Fs: fsys})
	require.NoError(t, err)

	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewLibrary(repo, opts)
}

// stubSource 允许为单个路径注入错误，用于模拟上游故障。
type stubSource struct {
	mu      sync.Mutex
	files   map[string]string
	errs    map[string]error
	listErr error
}

func (s *stubSource) ReadText(_ context.Context, rel string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[rel]; ok {
		return "", err
	}
	body, ok := s.files[rel]
	if !ok {
		return "", repository.ErrNotFound
	}
	return body, nil
}

func (s *stubSource) ListMarkdownFiles(_ context.Context, dir string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var names []string
	prefix := dir + "/"
	for rel := range s.files {
		if len(rel) > len(prefix) && rel[:len(prefix)] == prefix {
			names = append(names, rel[len(prefix):])
		}
	}
	for rel := range s.errs {
		if len(rel) > len(prefix) && rel[:len(prefix)] == prefix {
			names = append(names, rel[len(prefix):])
		}
	}
	return names, nil
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-hub/folio/internal/config"
)

func TestNewRejectsUnknownSource(t *testing.T) {
	for _, source := range []config.Source{"", "github", "s3"} {
		_, err := New(config.ContentConfig{Source: source, LocalPath: "/content", GitHubRepo: "octo/site"}, Options{})
		require.ErrorIs(t, err, ErrConfiguration, "source %q", source)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	local, err := New(config.ContentConfig{Source: config.SourceLocal, LocalPath: "/content"}, Options{Fs: newCountingFs()})
	require.NoError(t, err)
	assert.Equal(t, config.SourceLocal, local.Source())

	remote, err := New(config.ContentConfig{Source: config.SourceRemote, GitHubRepo: "octo/site"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, config.SourceRemote, remote.Source())
}

func TestClearCacheWithoutReadsIsSafe(t *testing.T) {
	repo := newLocalRepo(t, newCountingFs(), memRoot)
	repo.ClearCache()
	repo.ClearCache()
	assert.Zero(t, repo.Stats().Files)
}

func TestReadTextRejectsEmptyPath(t *testing.T) {
	repo := newLocalRepo(t, newCountingFs(), memRoot)
	_, err := repo.ReadText(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestConcurrentReadsAndClears(t *testing.T) {
	fsys := newCountingFs()
	mod := time.Unix(1700000000, 0)
	for i := 0; i < 5; i++ {
		writeMemFile(t, fsys, fmt.Sprintf("blogs/post-%d.md", i), fmt.Sprintf("post %d", i), mod)
	}
	repo := newLocalRepo(t, fsys, memRoot)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				name := fmt.Sprintf("blogs/post-%d.md", (worker+i)%5)
				got, err := repo.ReadText(context.Background(), name)
				if err != nil {
					errs <- err
					return
				}
				if got != fmt.Sprintf("post %d", (worker+i)%5) {
					errs <- fmt.Errorf("unexpected content %q for %s", got, name)
					return
				}
				if i%10 == 0 {
					repo.ClearCache()
				}
			}
		}(worker)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

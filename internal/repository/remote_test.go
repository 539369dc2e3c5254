package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-hub/folio/internal/config"
)

const (
	bioRawPath     = "/octo/site/main/content/bio.md"
	blogsListPath  = "/repos/octo/site/contents/content/blogs"
	remoteRefresh  = time.Minute
	remoteTestRepo = "octo/site"
)

type upstreamStub struct {
	t      *testing.T
	server *httptest.Server
	hits   atomic.Int32

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	lastReq  *http.Request
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	stub := &upstreamStub{t: t, handlers: make(map[string]http.HandlerFunc)}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		stub.mu.Lock()
		stub.lastReq = r.Clone(context.Background())
		handler := stub.handlers[r.URL.Path]
		stub.mu.Unlock()
		if handler == nil {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *upstreamStub) handle(path string, fn http.HandlerFunc) {
	s.mu.Lock()
	s.handlers[path] = fn
	s.mu.Unlock()
}

func (s *upstreamStub) last() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReq
}

func newRemoteRepo(t *testing.T, stub *upstreamStub, clock *fakeClock, token string) *Repository {
	t.Helper()
	cfg := config.ContentConfig{
		Source:          config.SourceRemote,
		RefreshInterval: config.Duration(remoteRefresh),
		GitHubRepo:      remoteTestRepo,
		GitHubBranch:    "main",
		GitHubSubdir:    "/content/",
		GitHubToken:     token,
	}
	repo, err := New(cfg, Options{
		Client:     stub.server.Client(),
		RawBaseURL: stub.server.URL,
		APIBaseURL: stub.server.URL + "/",
		Now:        clock.Now,
	})
	require.NoError(t, err)
	return repo
}

// etagHandler 返回固定正文；请求携带匹配的 If-None-Match 时返回 304。
func etagHandler(body, etag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		_, _ = w.Write([]byte(body))
	}
}

func TestRemoteReadWithinRefreshIntervalUsesCache(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(bioRawPath, etagHandler("# bio", `"v1"`))
	clock := newFakeClock()
	repo := newRemoteRepo(t, stub, clock, "")

	for i := 0; i < 3; i++ {
		got, err := repo.ReadText(context.Background(), "bio.md")
		require.NoError(t, err)
		assert.Equal(t, "# bio", got)
		clock.Advance(10 * time.Second)
	}
	assert.EqualValues(t, 1, stub.hits.Load())
}

func TestRemoteNotModifiedKeepsContentAndAdvancesLastChecked(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(bioRawPath, etagHandler("# bio", `"v1"`))
	clock := newFakeClock()
	repo := newRemoteRepo(t, stub, clock, "")

	_, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)
	assert.Empty(t, stub.last().Header.Get("If-None-Match"))

	clock.Advance(remoteRefresh + time.Second)
	got, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)
	assert.Equal(t, "# bio", got)
	assert.EqualValues(t, 2, stub.hits.Load())
	assert.Equal(t, `"v1"`, stub.last().Header.Get("If-None-Match"))

	clock.Advance(remoteRefresh / 2)
	_, err = repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stub.hits.Load(), "304 must advance LastChecked")
}

func TestRemoteChangedContentReplacesEntry(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(bioRawPath, etagHandler("old", `"v1"`))
	clock := newFakeClock()
	repo := newRemoteRepo(t, stub, clock, "")

	_, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)

	stub.handle(bioRawPath, etagHandler("new", `"v2"`))
	clock.Advance(remoteRefresh)
	got, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestRemoteSendsGitHubHeaders(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(bioRawPath, etagHandler("# bio", `"v1"`))
	repo := newRemoteRepo(t, stub, newFakeClock(), "ghp_secret")

	_, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)

	req := stub.last()
	assert.Equal(t, "application/vnd.github+json", req.Header.Get("Accept"))
	assert.Equal(t, "Bearer ghp_secret", req.Header.Get("Authorization"))
	assert.Contains(t, req.Header.Get("User-Agent"), "folio/")
}

func TestRemoteOmitsAuthorizationWithoutToken(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(bioRawPath, etagHandler("# bio", `"v1"`))
	repo := newRemoteRepo(t, stub, newFakeClock(), "")

	_, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)
	assert.Empty(t, stub.last().Header.Get("Authorization"))
}

func TestRemoteNotFoundCreatesNoEntry(t *testing.T) {
	stub := newUpstreamStub(t)
	repo := newRemoteRepo(t, stub, newFakeClock(), "")

	_, err := repo.ReadText(context.Background(), "missing.md")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, ErrNetwork)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, 0, repo.Stats().Files)

	_, err = repo.ReadText(context.Background(), "missing.md")
	require.Error(t, err)
	assert.EqualValues(t, 2, stub.hits.Load(), "failures are not cached")
}

func TestRemoteFailureDoesNotAdvanceLastChecked(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(bioRawPath, etagHandler("# bio", `"v1"`))
	clock := newFakeClock()
	repo := newRemoteRepo(t, stub, clock, "")

	_, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)

	stub.handle(bioRawPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	clock.Advance(remoteRefresh)
	_, err = repo.ReadText(context.Background(), "bio.md")
	require.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrNotFound)

	stub.handle(bioRawPath, etagHandler("# bio", `"v1"`))
	got, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)
	assert.Equal(t, "# bio", got)
	assert.EqualValues(t, 3, stub.hits.Load(), "a failed check must not refresh the entry")
}

func TestRemoteTransportErrorIsNetworkError(t *testing.T) {
	stub := newUpstreamStub(t)
	repo := newRemoteRepo(t, stub, newFakeClock(), "")
	stub.server.Close()

	_, err := repo.ReadText(context.Background(), "bio.md")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestRemoteListFilesKeepsOnlyFilesInOrder(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(blogsListPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		if r.Header.Get("If-None-Match") == `"d1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"d1"`)
		_, _ = w.Write([]byte(`[
			{"name": "z-post.md", "type": "file"},
			{"name": "drafts", "type": "dir"},
			{"name": "a-post.md", "type": "file"},
			{"name": "link", "type": "symlink"}
		]`))
	})
	clock := newFakeClock()
	repo := newRemoteRepo(t, stub, clock, "")

	files, err := repo.ListMarkdownFiles(context.Background(), "blogs")
	require.NoError(t, err)
	assert.Equal(t, []string{"z-post.md", "a-post.md"}, files)

	files[0] = "mutated"
	again, err := repo.ListMarkdownFiles(context.Background(), "/blogs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"z-post.md", "a-post.md"}, again)
	assert.EqualValues(t, 1, stub.hits.Load())

	clock.Advance(remoteRefresh)
	again, err = repo.ListMarkdownFiles(context.Background(), "blogs")
	require.NoError(t, err)
	assert.Equal(t, []string{"z-post.md", "a-post.md"}, again)
	assert.EqualValues(t, 2, stub.hits.Load())
	assert.Equal(t, `"d1"`, stub.last().Header.Get("If-None-Match"))
}

func TestRemoteListMalformedPayloadIsNetworkError(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(blogsListPath, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "not a directory"}`))
	})
	repo := newRemoteRepo(t, stub, newFakeClock(), "")

	_, err := repo.ListMarkdownFiles(context.Background(), "blogs")
	require.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, 0, repo.Stats().Directories)
}

func TestRemoteClearCacheForcesUnconditionalFetch(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.handle(bioRawPath, etagHandler("# bio", `"v1"`))
	repo := newRemoteRepo(t, stub, newFakeClock(), "")

	_, err := repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)

	repo.ClearCache()
	require.Equal(t, 0, repo.Stats().Files)

	_, err = repo.ReadText(context.Background(), "bio.md")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stub.hits.Load())
	assert.Empty(t, stub.last().Header.Get("If-None-Match"))
}

func TestRemoteConcurrentMissesShareOneRequest(t *testing.T) {
	stub := newUpstreamStub(t)
	release := make(chan struct{})
	stub.handle(bioRawPath, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte("# bio"))
	})
	repo := newRemoteRepo(t, stub, newFakeClock(), "")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ReadText(context.Background(), "bio.md")
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return stub.hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, stub.hits.Load())
}

func TestRemoteCanceledCallerStillPopulatesCache(t *testing.T) {
	stub := newUpstreamStub(t)
	release := make(chan struct{})
	stub.handle(bioRawPath, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte("# bio"))
	})
	repo := newRemoteRepo(t, stub, newFakeClock(), "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := repo.ReadText(ctx, "bio.md")
		done <- err
	}()
	require.Eventually(t, func() bool { return stub.hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return repo.Stats().Files == 1 }, time.Second, 5*time.Millisecond)
}

func TestRemoteRequiresRepository(t *testing.T) {
	_, err := New(config.ContentConfig{Source: config.SourceRemote}, Options{})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestRemoteURLs(t *testing.T) {
	b, err := newRemoteBackend(config.ContentConfig{
		GitHubRepo:   "octo/site",
		GitHubBranch: "main",
		GitHubSubdir: "backend/app/content/markdown",
	}, Options{}, nil, time.Now, nil)
	require.NoError(t, err)

	assert.Equal(t,
		"https://raw.githubusercontent.com/octo/site/main/backend/app/content/markdown/blogs/hello%20world.md",
		b.rawURL("blogs/hello world.md"))
	assert.Equal(t,
		"https://api.github.com/repos/octo/site/contents/backend/app/content/markdown/blogs?ref=main",
		b.apiURL("blogs"))
	assert.Equal(t,
		"https://api.github.com/repos/octo/site/contents/backend/app/content/markdown?ref=main",
		b.apiURL(""))

	b.subdir = ""
	assert.Equal(t, "https://api.github.com/repos/octo/site/contents?ref=main", b.apiURL(""))
	assert.Equal(t, "https://raw.githubusercontent.com/octo/site/main/bio.md", b.rawURL("bio.md"))
}

package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/folio-hub/folio/internal/cache"
	"github.com/folio-hub/folio/internal/config"
	"github.com/folio-hub/folio/internal/content"
	"github.com/folio-hub/folio/internal/server"
)

func newRoutesApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app, err := server.NewApp(server.AppOptions{Logger: logger})
	if err != nil {
		t.Fatalf("创建 app 失败: %v", err)
	}
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test 失败: %v", err)
	}
	return resp
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	return doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
}

type fakeBioLoader struct {
	bio   *content.Bio
	err   error
	calls atomic.Int32
}

func (f *fakeBioLoader) Bio(context.Context) (*content.Bio, error) {
	f.calls.Add(1)
	return f.bio, f.err
}

type fakePostLoader struct {
	posts []content.BlogPost
	err   error
}

func (f *fakePostLoader) BlogPosts(context.Context) ([]content.BlogPost, error) {
	return f.posts, f.err
}

type fakeRepo struct {
	clears atomic.Int32
	stats  cache.Stats
}

func (f *fakeRepo) ClearCache() {
	f.clears.Add(1)
}

func (f *fakeRepo) Source() config.Source {
	return config.SourceRemote
}

func (f *fakeRepo) Stats() cache.Stats {
	return f.stats
}

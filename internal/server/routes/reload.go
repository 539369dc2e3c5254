package routes

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/folio-hub/folio/internal/logging"
	"github.com/folio-hub/folio/internal/server"
)

// CacheClearer 由内容仓库实现，清空全部缓存。
type CacheClearer interface {
	ClearCache()
}

// ReloadOptions 配置 reload 接口。Token 为空时接口对外表现为不存在。
type ReloadOptions struct {
	Token   string
	Limiter *rate.Limiter
	Logger  *logrus.Logger
}

// DefaultReloadLimiter 每 10 秒补充一次，最多连续 3 次。
func DefaultReloadLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(10*time.Second), 3)
}

// RegisterReloadRoutes 注册 POST /api/content/reload。
func RegisterReloadRoutes(app *fiber.App, clearer CacheClearer, opts ReloadOptions) {
	if app == nil || clearer == nil {
		return
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	app.Post("/api/content/reload", func(c fiber.Ctx) error {
		if opts.Token == "" {
			return server.NewAPIError(fiber.StatusNotFound, "not_found")
		}

		fields := logrus.Fields{
			"action":     "reload",
			"request_id": server.RequestID(c),
		}
		provided := c.Get(server.ReloadTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(opts.Token)) != 1 {
			logger.WithFields(fields).Warn("reload_forbidden")
			return server.NewAPIError(fiber.StatusForbidden, "forbidden")
		}
		if opts.Limiter != nil && !opts.Limiter.Allow() {
			logger.WithFields(fields).Warn("reload_throttled")
			return server.NewAPIError(fiber.StatusTooManyRequests, "rate_limited")
		}

		clearer.ClearCache()
		logger.WithFields(fields).Info("reload_complete")
		return c.SendStatus(fiber.StatusNoContent)
	})
}

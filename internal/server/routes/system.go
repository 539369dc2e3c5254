package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/folio-hub/folio/internal/cache"
	"github.com/folio-hub/folio/internal/config"
)

const welcomeMessage = "Welcome to the portfolio content API"

// CacheInspector 暴露内容来源与缓存条目数，供诊断接口使用。
type CacheInspector interface {
	Source() config.Source
	Stats() cache.Stats
}

// RegisterSystemRoutes 注册健康检查、根路径与 /-/cache 诊断接口。
func RegisterSystemRoutes(app *fiber.App, inspector CacheInspector) {
	if app == nil {
		return
	}

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": welcomeMessage})
	})

	if inspector == nil {
		return
	}
	app.Get("/-/cache", func(c fiber.Ctx) error {
		return c.JSON(cachePayload{
			Source: string(inspector.Source()),
			Stats:  inspector.Stats(),
		})
	})
}

type cachePayload struct {
	Source string      `json:"source"`
	Stats  cache.Stats `json:"stats"`
}

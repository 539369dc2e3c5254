package routes

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/folio-hub/folio/internal/content"
	"github.com/folio-hub/folio/internal/server"
)

// PostLoader 按请求加载全部博客文章，按发布时间倒序。
type PostLoader interface {
	BlogPosts(ctx context.Context) ([]content.BlogPost, error)
}

// RegisterBlogRoutes 注册 /api/blog 列表、标签与单篇文章接口。
// tags/all 与 slug/:slug 必须先于 :id 注册。
func RegisterBlogRoutes(app *fiber.App, loader PostLoader) {
	if app == nil || loader == nil {
		return
	}

	app.Get("/api/blog", func(c fiber.Ctx) error {
		query, err := parsePostQuery(c)
		if err != nil {
			return err
		}
		posts, err := loader.BlogPosts(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(query.Apply(posts))
	})

	app.Get("/api/blog/tags/all", func(c fiber.Ctx) error {
		posts, err := loader.BlogPosts(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"tags": content.Tags(posts)})
	})

	app.Get("/api/blog/slug/:slug", func(c fiber.Ctx) error {
		posts, err := loader.BlogPosts(c.Context())
		if err != nil {
			return err
		}
		post, ok := content.FindBySlug(posts, c.Params("slug"))
		if !ok {
			return server.NewAPIError(fiber.StatusNotFound, "post_not_found")
		}
		return c.JSON(post)
	})

	app.Get("/api/blog/:id", func(c fiber.Ctx) error {
		posts, err := loader.BlogPosts(c.Context())
		if err != nil {
			return err
		}
		post, ok := content.FindByID(posts, c.Params("id"))
		if !ok {
			return server.NewAPIError(fiber.StatusNotFound, "post_not_found")
		}
		return c.JSON(post)
	})
}

// parsePostQuery 校验 limit(1-100)、offset(>=0)、tag 与 featured 查询参数。
func parsePostQuery(c fiber.Ctx) (content.PostQuery, error) {
	query := content.PostQuery{Limit: content.DefaultPageLimit, Tag: c.Query("tag")}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > content.MaxPageLimit {
			return query, server.NewAPIError(fiber.StatusBadRequest, "invalid_limit")
		}
		query.Limit = limit
	}

	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return query, server.NewAPIError(fiber.StatusBadRequest, "invalid_offset")
		}
		query.Offset = offset
	}

	if raw := strings.TrimSpace(c.Query("featured")); raw != "" {
		featured, ok := parseBool(raw)
		if !ok {
			return query, server.NewAPIError(fiber.StatusBadRequest, "invalid_featured")
		}
		query.Featured = &featured
	}

	return query, nil
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "1", "true", "t", "yes", "y", "on":
		return true, true
	case "0", "false", "f", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

package routes

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/folio-hub/folio/internal/content"
)

// BioLoader 按请求加载完整的个人简介。
type BioLoader interface {
	Bio(ctx context.Context) (*content.Bio, error)
}

type bioSummary struct {
	Name      string           `json:"name"`
	Title     string           `json:"title"`
	Summary   string           `json:"summary"`
	About     string           `json:"about"`
	AboutHTML string           `json:"about_html"`
	Contact   *content.Contact `json:"contact"`
}

// RegisterContentRoutes 注册 /api/content 下的简介与各分区接口。
func RegisterContentRoutes(app *fiber.App, loader BioLoader) {
	if app == nil || loader == nil {
		return
	}

	app.Get("/api/content", func(c fiber.Ctx) error {
		bio, err := loader.Bio(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(bio)
	})

	app.Get("/api/content/bio", func(c fiber.Ctx) error {
		bio, err := loader.Bio(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(bioSummary{
			Name:      bio.Name,
			Title:     bio.Title,
			Summary:   bio.Summary,
			About:     bio.About,
			AboutHTML: bio.AboutHTML,
			Contact:   bio.Contact,
		})
	})

	sections := map[string]func(*content.Bio) any{
		"skills":       func(b *content.Bio) any { return b.Skills },
		"experience":   func(b *content.Bio) any { return b.Experience },
		"education":    func(b *content.Bio) any { return b.Education },
		"talks":        func(b *content.Bio) any { return b.Talks },
		"publications": func(b *content.Bio) any { return b.Publications },
	}
	for key, pick := range sections {
		app.Get("/api/content/"+key, sectionHandler(loader, key, pick))
	}
}

func sectionHandler(loader BioLoader, key string, pick func(*content.Bio) any) fiber.Handler {
	return func(c fiber.Ctx) error {
		bio, err := loader.Bio(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{key: pick(bio)})
	}
}

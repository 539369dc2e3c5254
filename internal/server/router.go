package server

import (
	"errors"
	"slices"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/folio-hub/folio/internal/logging"
)

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger      *logrus.Logger
	CORSOrigins []string
}

const contextKeyRequestID = "_folio_request_id"

// NewApp builds a Fiber application with request ID, access log, CORS and
// structured error handling. Routes are registered by the caller.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		ErrorHandler:  errorHandler(opts.Logger),
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts.Logger))
	if len(opts.CORSOrigins) > 0 {
		app.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}

	return app, nil
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			fiber.MethodGet,
			fiber.MethodHead,
			fiber.MethodPost,
			fiber.MethodOptions,
		},
		AllowHeaders:  []string{"Content-Type", "Authorization", ReloadTokenHeader},
		ExposeHeaders: []string{"X-Request-ID"},
		// 通配来源不能与凭证同时开启。
		AllowCredentials: !slices.Contains(origins, "*"),
	}
}

// ReloadTokenHeader 携带 reload 密钥的请求头，CORS 预检需要放行。
const ReloadTokenHeader = "X-Reload-Token"

// requestContextMiddleware 负责生成请求 ID，并在请求结束后输出访问日志。
// 处理链返回的错误在此处直接渲染，保证日志里记录的是最终状态码。
func requestContextMiddleware(logger *logrus.Logger) fiber.Handler {
	render := errorHandler(logger)
	return func(c fiber.Ctx) error {
		started := time.Now()
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		chainErr := c.Next()
		if chainErr != nil {
			if err := render(c, chainErr); err != nil {
				return err
			}
		}

		status := c.Response().StatusCode()
		fields := logging.RequestFields(c.Method(), c.Path(), status, reqID)
		fields["action"] = "http"
		fields["elapsed_ms"] = time.Since(started).Milliseconds()
		if chainErr != nil {
			fields["error"] = chainErr.Error()
		}
		entry := logger.WithFields(fields)
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request_failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request_rejected")
		default:
			entry.Info("request_complete")
		}
		return nil
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/folio-hub/folio/internal/content"
	"github.com/folio-hub/folio/internal/repository"
)

// APIError 是处理器主动返回的客户端错误，Code 作为响应体中的 error 字段。
type APIError struct {
	Status int
	Code   string
}

func (e *APIError) Error() string {
	return e.Code
}

// NewAPIError 构造带状态码与错误码的 APIError。
func NewAPIError(status int, code string) *APIError {
	return &APIError{Status: status, Code: code}
}

// ErrorStatus 将错误映射为 HTTP 状态码与错误码。
func ErrorStatus(err error) (int, string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Code
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, statusCode(fiberErr.Code)
	}
	var parseErr *content.ParseError
	switch {
	case errors.Is(err, repository.ErrInvalidPath):
		return fiber.StatusBadRequest, "invalid_path"
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.As(err, &parseErr):
		return fiber.StatusInternalServerError, "content_invalid"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, repository.ErrNetwork):
		return fiber.StatusBadGateway, "upstream_failed"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusTooManyRequests:
		return "too_many_requests"
	case fiber.StatusRequestEntityTooLarge:
		return "payload_too_large"
	default:
		if status >= fiber.StatusInternalServerError {
			return "internal_error"
		}
		return "request_failed"
	}
}

func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status, code := ErrorStatus(err)
		if status >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"action":     "error",
				"path":       c.Path(),
				"request_id": RequestID(c),
				"error":      err.Error(),
			}).Error("request_error")
		}
		return c.Status(status).JSON(fiber.Map{"error": code})
	}
}

package middleware

import (
	"errors"

	basehdl "delivery_marketplace/internal/api/base/handler"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/metrics"

	"github.com/gofiber/fiber/v3"
)

// ErrorHandler is the app-level fiber.ErrorHandler. Errors that escape handlers and
// middleware (unknown route, limiter, body limit) get the same envelope as handler errors.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := common.ErrCodeValidationInput
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = common.ErrCodeDatabaseQuery
		case fe.Code >= 500:
			code = common.ErrCodeInternalServer
		}
		return basehdl.HandleError(c, common.NewError(code, fe.Message, fe.Code, nil))
	}
	return basehdl.HandleError(c, err)
}

// LimitReached answers the rate limiter's rejection.
func LimitReached(c fiber.Ctx) error {
	return basehdl.HandleError(c, common.NewError(
		common.ErrCodeValidationInput,
		common.MsgTooManyRequests,
		common.StatusTooManyRequests,
		nil,
	))
}

// Metrics records request count, latency and in-flight gauge by matched route.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		done := metrics.RequestStarted()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		done(c.Method(), route, status)
		return err
	}
}

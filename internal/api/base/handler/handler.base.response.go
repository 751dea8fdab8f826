package basehdl

import (
	"errors"
	"fmt"

	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleResponse writes the standard envelope:
// {success, code, message, data, status} or {success:false, code, message, details, status:"error"}.
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		return HandleError(c, err)
	}
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"success": true,
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// HandleCreated is HandleResponse with 201.
func HandleCreated(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		return HandleError(c, err)
	}
	return JSONResponse(c, common.StatusCreated, fiber.Map{
		"success": true,
		"code":    common.StatusCreated,
		"message": common.MsgCreated,
		"data":    data,
		"status":  "success",
	})
}

// HandlePaginated writes page.Items as data and the counters as meta.
func HandlePaginated[T any](c fiber.Ctx, page *basemodels.PaginateResult[T], err error) error {
	if err != nil {
		return HandleError(c, err)
	}
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"success": true,
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    page.Items,
		"meta":    page.Meta(),
		"status":  "success",
	})
}

// HandleError renders err. Anything that is not a *common.Error is a 500 and is logged.
func HandleError(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		return JSONResponse(c, customErr.StatusCode, fiber.Map{
			"success": false,
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"details": customErr.Details,
			"status":  "error",
		})
	}

	logger.GetErrorLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).WithError(err).Error("Unhandled error")

	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"success": false,
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"details": nil,
		"status":  "error",
	})
}

// SafeHandler recovers a panic in fn into a 500 envelope.
func SafeHandler(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetErrorLogger().WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
				"panic":  fmt.Sprint(r),
			}).Error("Handler panic recovered")
			err = HandleError(c, common.NewError(
				common.ErrCodeInternalServer,
				common.MsgInternalError,
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/global"
	"delivery_marketplace/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pagination limits.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ParseRequestBody decodes the JSON body into input and runs the validator on it.
func ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return ValidateInput(input)
}

// ValidateInput runs global.Validate and maps failures to a VAL_001 error with
// details.errors keyed by json field path.
func ValidateInput(input interface{}) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	err := global.Validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = describe(fe)
	}
	return common.NewValidationError(common.MsgValidationError, fields)
}

// fieldPath drops the root struct name: "saveFlowInput.steps[1].name" -> "steps[1].name".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s item(s) or characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s item(s) or characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "flow_role":
		return "must be one of: admin shop_owner courier client"
	case "destination_type":
		return "must be one of: telegram_user telegram_group telegram_channel"
	case "object_id":
		return "must be a 24 character hex id"
	case "flag_value":
		return "does not match the flag type"
	case "no_xss":
		return "contains forbidden markup"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// ParseObjectID reads a path parameter as an ObjectID.
func ParseObjectID(c fiber.Ctx, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(param))
	if err != nil {
		return primitive.NilObjectID, common.ErrInvalidID
	}
	return id, nil
}

// ParseOptionalObjectID reads a query parameter as an ObjectID; empty yields nil.
func ParseOptionalObjectID(c fiber.Ctx, query string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(c.Query(query))
	if raw == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("%s must be a 24 character hex id", query), common.StatusBadRequest, nil)
	}
	return &id, nil
}

// ParseIntParam reads a non-negative integer path parameter.
func ParseIntParam(c fiber.Ctx, param string) (int, error) {
	n, err := strconv.Atoi(c.Params(param))
	if err != nil || n < 0 {
		return 0, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("%s must be a non-negative integer", param), common.StatusBadRequest, nil)
	}
	return n, nil
}

// ParsePagination reads page (>=1) and limit (1..MaxPageLimit).
func ParsePagination(c fiber.Ctx) (int64, int64) {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", strconv.Itoa(DefaultPageLimit)), 10, 64)
	if err != nil || limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Caller is the authenticated user of a request, as set by the auth middleware.
type Caller struct {
	UserID string
	Role   string
	ShopID string
}

// GetCaller reads the caller from Locals. Missing values are empty strings.
func GetCaller(c fiber.Ctx) Caller {
	var caller Caller
	caller.UserID, _ = c.Locals(logger.LocalUserID).(string)
	caller.Role, _ = c.Locals(logger.LocalRole).(string)
	caller.ShopID, _ = c.Locals(logger.LocalShopID).(string)
	return caller
}

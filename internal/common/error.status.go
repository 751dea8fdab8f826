package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusPreconditionFailed  = 412
	StatusUnprocessableEntity = 422
	StatusTooManyRequests     = 429

	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response Messages
const (
	MsgSuccess = "Operation completed successfully"
	MsgCreated = "Created successfully"

	MsgBadRequest      = "Invalid request"
	MsgUnauthorized    = "Please sign in"
	MsgForbidden       = "Access denied"
	MsgNotFound        = "Resource not found"
	MsgConflict        = "Data conflict"
	MsgTooManyRequests = "Too many requests, please try again later"
	MsgInternalError   = "Internal server error"

	MsgValidationError = "Invalid data"
	MsgDatabaseError   = "Database error"
	MsgInvalidFormat   = "Invalid data format"
)

// ErrorCode is a hierarchical error code (category + sub category).
type ErrorCode struct {
	Code        string // e.g. AUTH_001
	Category    string // e.g. Authentication
	SubCategory string // e.g. Token
	Description string
}

var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{Code: "SYS_001", Category: "System", SubCategory: "Internal", Description: "Internal system error"}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuth            = ErrorCode{Code: "AUTH", Category: "Authentication", SubCategory: "General", Description: "Authentication error"}
	ErrCodeAuthToken       = ErrorCode{Code: "AUTH_001", Category: "Authentication", SubCategory: "Token", Description: "Token error"}
	ErrCodeAuthCredentials = ErrorCode{Code: "AUTH_002", Category: "Authentication", SubCategory: "Credentials", Description: "Credentials error"}
	ErrCodeAuthRole        = ErrorCode{Code: "AUTH_003", Category: "Authentication", SubCategory: "Role", Description: "Role not allowed"}

	// Validation Errors (VAL_xxx)
	ErrCodeValidation       = ErrorCode{Code: "VAL", Category: "Validation", SubCategory: "General", Description: "Validation error"}
	ErrCodeValidationInput  = ErrorCode{Code: "VAL_001", Category: "Validation", SubCategory: "Input", Description: "Invalid input"}
	ErrCodeValidationFormat = ErrorCode{Code: "VAL_002", Category: "Validation", SubCategory: "Format", Description: "Invalid format"}

	// Database Errors (DB_xxx)
	ErrCodeDatabase           = ErrorCode{Code: "DB", Category: "Database", SubCategory: "General", Description: "Database error"}
	ErrCodeDatabaseConnection = ErrorCode{Code: "DB_001", Category: "Database", SubCategory: "Connection", Description: "Database connection error"}
	ErrCodeDatabaseQuery      = ErrorCode{Code: "DB_002", Category: "Database", SubCategory: "Query", Description: "Database query error"}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusiness           = ErrorCode{Code: "BIZ", Category: "Business", SubCategory: "General", Description: "Business rule error"}
	ErrCodeBusinessState      = ErrorCode{Code: "BIZ_001", Category: "Business", SubCategory: "State", Description: "Invalid state"}
	ErrCodeBusinessOperation  = ErrorCode{Code: "BIZ_002", Category: "Business", SubCategory: "Operation", Description: "Invalid operation"}
	ErrCodeBusinessTransition = ErrorCode{Code: "BIZ_003", Category: "Business", SubCategory: "Transition", Description: "Status transition not allowed for role"}
)

// Error is the error type every layer returns; handlers render it as the JSON envelope.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

// Error returns the message.
func (e *Error) Error() string {
	return e.Message
}

// Is matches on code and message so wrapped sentinels still compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// NewError builds an *Error.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewValidationError builds a VAL_001 error whose details carry a per-field map
// under "errors", which is the shape the admin forms render inline.
func NewValidationError(message string, fieldErrors map[string]string) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, map[string]interface{}{
		"errors": fieldErrors,
	})
}

// Custom errors
var (
	ErrTokenExpired = NewError(ErrCodeAuthToken, "Session has expired", StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, "Invalid token", StatusUnauthorized, nil)
	ErrTokenMissing = NewError(ErrCodeAuthToken, "Missing authentication token", StatusUnauthorized, nil)
	ErrRoleDenied   = NewError(ErrCodeAuthRole, "Your role is not allowed to perform this action", StatusForbidden, nil)

	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Invalid input data", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Invalid data format", StatusBadRequest, nil)
	ErrInvalidID     = NewError(ErrCodeValidationFormat, "ID must be a 24 character hex ObjectID", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Missing required field", StatusBadRequest, nil)

	ErrNotFound        = NewError(ErrCodeDatabaseQuery, "Data not found", StatusNotFound, nil)
	ErrDuplicate       = NewError(ErrCodeDatabaseQuery, "Data already exists", StatusConflict, nil)
	ErrVersionConflict = NewError(ErrCodeDatabaseQuery, "Document was modified by someone else, reload and try again", StatusConflict, nil)

	ErrInvalidState      = NewError(ErrCodeBusinessState, "Invalid state", StatusBadRequest, nil)
	ErrInvalidOperation  = NewError(ErrCodeBusinessOperation, "Invalid operation", StatusBadRequest, nil)
	ErrTransitionDenied  = NewError(ErrCodeBusinessTransition, "Role is not authorized for this status change", StatusForbidden, nil)
	ErrTransitionInvalid = NewError(ErrCodeBusinessState, "Status change is not allowed by the order flow", StatusBadRequest, nil)
)

// MongoDB Specific Errors
var (
	ErrMongoConnection = NewError(ErrCodeDatabaseConnection, "MongoDB connection error", StatusServiceUnavailable, nil)
	ErrMongoNetwork    = NewError(ErrCodeDatabaseConnection, "MongoDB network error", StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabaseConnection, "MongoDB operation timed out", StatusServiceUnavailable, nil)
	ErrMongoAuth       = NewError(ErrCodeAuth, "MongoDB authentication error", StatusUnauthorized, nil)
	ErrMongoQuery      = NewError(ErrCodeDatabaseQuery, "MongoDB query error", StatusInternalServerError, nil)
	ErrMongoWrite      = NewError(ErrCodeDatabaseQuery, "MongoDB write error", StatusInternalServerError, nil)
	ErrMongoDuplicate  = NewError(ErrCodeDatabaseQuery, "Duplicate data in MongoDB", StatusConflict, nil)
	ErrMongoSystem     = NewError(ErrCodeDatabase, "MongoDB system error", StatusInternalServerError, nil)
)

// ConvertMongoError maps a driver error onto the error taxonomy.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// Duplicate keys arrive as WriteException, so check before CommandError.
	if mongo.IsDuplicateKeyError(err) {
		return ErrMongoDuplicate
	}
	if mongo.IsNetworkError(err) {
		return ErrMongoNetwork
	}
	if mongo.IsTimeout(err) {
		return ErrMongoTimeout
	}

	var mongoErr mongo.CommandError
	if errors.As(err, &mongoErr) {
		switch {
		case mongoErr.Code >= 100 && mongoErr.Code < 200:
			return ErrMongoConnection
		case mongoErr.Code >= 200 && mongoErr.Code < 300:
			return ErrMongoAuth
		case mongoErr.Code >= 300 && mongoErr.Code < 400:
			return ErrMongoQuery
		case mongoErr.Code >= 400 && mongoErr.Code < 500:
			return ErrMongoWrite
		case mongoErr.Code >= 500:
			return ErrMongoSystem
		}
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err.Error())
}

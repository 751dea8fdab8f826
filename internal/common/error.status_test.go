package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConvertMongoError_NoDocuments(t *testing.T) {
	err := ConvertMongoError(mongo.ErrNoDocuments)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestConvertMongoError_KeepsAppErrors(t *testing.T) {
	wrapped := fmt.Errorf("load flow: %w", ErrVersionConflict)
	assert.Same(t, wrapped, ConvertMongoError(wrapped))
}

func TestConvertMongoError_DuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.True(t, errors.Is(ConvertMongoError(dup), ErrMongoDuplicate))
}

func TestConvertMongoError_Unknown(t *testing.T) {
	err := ConvertMongoError(errors.New("boom"))
	var appErr *Error
	if assert.True(t, errors.As(err, &appErr)) {
		assert.Equal(t, ErrCodeDatabase.Code, appErr.Code.Code)
		assert.Equal(t, StatusInternalServerError, appErr.StatusCode)
	}
}

func TestNewValidationError_Details(t *testing.T) {
	err := NewValidationError("bad flow", map[string]string{"steps": "at least one step is required"})
	var appErr *Error
	if assert.True(t, errors.As(err, &appErr)) {
		details := appErr.Details.(map[string]interface{})
		fields := details["errors"].(map[string]string)
		assert.Equal(t, "at least one step is required", fields["steps"])
		assert.Equal(t, StatusBadRequest, appErr.StatusCode)
	}
}

package global

import (
	"context"
	"reflect"
	"strings"
	"time"

	basemodels "delivery_marketplace/internal/api/base/models"
	orderflowmodels "delivery_marketplace/internal/api/orderflow/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feature flag types accepted by the flag_value validator.
const (
	FlagTypeBool   = "bool"
	FlagTypeText   = "text"
	FlagTypeSelect = "select"
)

// InitValidator creates the validator and registers the custom tags.
func InitValidator() {
	Validate = NewValidator()
}

// NewValidator returns a validator with every custom tag registered and
// field names reported by their json tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("no_xss", validateNoXSS)
	_ = v.RegisterValidation("object_id", validateObjectID)
	_ = v.RegisterValidation("flow_role", validateFlowRole)
	_ = v.RegisterValidation("destination_type", validateDestinationType)
	_ = v.RegisterValidation("flag_value", validateFlagValue)
	_ = v.RegisterValidation("exists", validateExists)
	return v
}

func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerhtml",
		"fromcharcode",
		"window.location",
		"<iframe",
		"<object",
		"<embed",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateObjectID accepts a 24 char hex string. Use with omitempty for optional ids.
func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

func validateFlowRole(fl validator.FieldLevel) bool {
	return basemodels.IsValidRole(fl.Field().String())
}

func validateDestinationType(fl validator.FieldLevel) bool {
	return orderflowmodels.IsValidDestinationType(fl.Field().String())
}

// validateFlagValue checks Value against sibling FlagType and Options fields.
// bool needs a bool, text a string, select one of Options.
func validateFlagValue(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	if !parent.IsValid() || parent.Kind() != reflect.Struct {
		return true
	}
	flagTypeField := parent.FieldByName("FlagType")
	if !flagTypeField.IsValid() {
		return true
	}
	var options []string
	if optionsField := parent.FieldByName("Options"); optionsField.IsValid() {
		if o, ok := optionsField.Interface().([]string); ok {
			options = o
		}
	}

	field := fl.Field()
	if field.Kind() == reflect.Interface {
		if field.IsNil() {
			return false
		}
		field = field.Elem()
	}
	return CheckFlagValue(flagTypeField.String(), options, field.Interface())
}

// CheckFlagValue reports whether value fits a flag of flagType.
func CheckFlagValue(flagType string, options []string, value interface{}) bool {
	switch flagType {
	case FlagTypeBool:
		_, ok := value.(bool)
		return ok
	case FlagTypeText:
		_, ok := value.(string)
		return ok
	case FlagTypeSelect:
		s, ok := value.(string)
		if !ok || len(options) == 0 {
			return false
		}
		for _, o := range options {
			if o == s {
				return true
			}
		}
		return false
	}
	return false
}

// validateExists checks that the referenced document exists.
// Format: validate:"exists=<collection_name>"
func validateExists(fl validator.FieldLevel) bool {
	collectionName := fl.Param()
	if collectionName == "" {
		return false
	}

	var objID primitive.ObjectID
	switch v := fl.Field().Interface().(type) {
	case string:
		if v == "" {
			return true
		}
		var err error
		if objID, err = primitive.ObjectIDFromHex(v); err != nil {
			return false
		}
	case primitive.ObjectID:
		if v.IsZero() {
			return true
		}
		objID = v
	default:
		return false
	}

	collection, ok := RegistryCollections.Get(collectionName)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return false
	}
	return count > 0
}

package global

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type destinationInput struct {
	Type       string `json:"type" validate:"required,destination_type"`
	Identifier string `json:"identifier" validate:"required"`
	Name       string `json:"name" validate:"omitempty,no_xss"`
}

type stepInput struct {
	AuthorizedRoles []string `json:"authorizedRoles" validate:"dive,flow_role"`
	ShopID          string   `json:"shopId" validate:"omitempty,object_id"`
}

type flagInput struct {
	FlagType string      `json:"flagType"`
	Options  []string    `json:"options"`
	Value    interface{} `json:"value" validate:"flag_value"`
}

func TestValidator_DestinationType(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(destinationInput{Type: "telegram_group", Identifier: "-100123"}))

	err := v.Struct(destinationInput{Type: "email", Identifier: "x"})
	require.Error(t, err)
	verrs := err.(validator.ValidationErrors)
	assert.Equal(t, "type", verrs[0].Field())
	assert.Equal(t, "destination_type", verrs[0].Tag())
}

func TestValidator_NoXSS(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.Struct(destinationInput{Type: "telegram_user", Identifier: "1", Name: "<script>alert(1)</script>"}))
	assert.NoError(t, v.Struct(destinationInput{Type: "telegram_user", Identifier: "1", Name: "Shop chat"}))
}

func TestValidator_RolesAndObjectID(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Struct(stepInput{AuthorizedRoles: []string{"admin", "courier"}, ShopID: "64b7f0c2a1b2c3d4e5f60718"}))
	assert.Error(t, v.Struct(stepInput{AuthorizedRoles: []string{"manager"}}))
	assert.Error(t, v.Struct(stepInput{ShopID: "not-an-id"}))
}

func TestValidator_FlagValue(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(flagInput{FlagType: FlagTypeBool, Value: true}))
	assert.Error(t, v.Struct(flagInput{FlagType: FlagTypeBool, Value: "true"}))
	assert.NoError(t, v.Struct(flagInput{FlagType: FlagTypeText, Value: "hello"}))
	assert.NoError(t, v.Struct(flagInput{FlagType: FlagTypeSelect, Options: []string{"cash", "card"}, Value: "card"}))
	assert.Error(t, v.Struct(flagInput{FlagType: FlagTypeSelect, Options: []string{"cash", "card"}, Value: "crypto"}))
	assert.Error(t, v.Struct(flagInput{FlagType: FlagTypeSelect, Value: "cash"}))
	assert.Error(t, v.Struct(flagInput{FlagType: FlagTypeText}))
}

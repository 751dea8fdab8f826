// Package settingdto holds the request bodies of the /settings routes.
package settingdto

// SettingCreateInput creates a flag. value must fit flagType (see global.CheckFlagValue).
type SettingCreateInput struct {
	Key         string      `json:"key" validate:"required,max=64,no_xss"`
	FlagType    string      `json:"flagType" validate:"required,oneof=bool text select"`
	Value       interface{} `json:"value" validate:"flag_value"`
	Options     []string    `json:"options,omitempty" validate:"required_if=FlagType select,omitempty,unique,dive,required,max=100"`
	Description string      `json:"description,omitempty" validate:"omitempty,max=500,no_xss"`
	IsActive    *bool       `json:"isActive,omitempty"`
}

// SettingUpdateInput is a partial update; the flag type cannot change.
type SettingUpdateInput struct {
	Value       interface{} `json:"value,omitempty"`
	Options     []string    `json:"options,omitempty" validate:"omitempty,unique,dive,required,max=100"`
	Description *string     `json:"description,omitempty" validate:"omitempty,max=500,no_xss"`
	IsActive    *bool       `json:"isActive,omitempty"`
}

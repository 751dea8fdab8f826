// Package userdto holds the request bodies of the /users routes.
package userdto

// UserCreateInput registers a Telegram account.
type UserCreateInput struct {
	TelegramID int64  `json:"telegramId" validate:"required,gt=0"`
	Username   string `json:"username,omitempty" validate:"omitempty,max=64,no_xss"`
	FirstName  string `json:"firstName" validate:"required,max=100,no_xss"`
	LastName   string `json:"lastName,omitempty" validate:"omitempty,max=100,no_xss"`
	Role       string `json:"role" validate:"required,flow_role"`
	ShopID     string `json:"shopId,omitempty" validate:"omitempty,object_id"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

// UserUpdateInput is a partial update; absent fields are left alone.
type UserUpdateInput struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,max=64,no_xss"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100,no_xss"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100,no_xss"`
	Role      *string `json:"role,omitempty" validate:"omitempty,flow_role"`
	ShopID    *string `json:"shopId,omitempty" validate:"omitempty,object_id"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

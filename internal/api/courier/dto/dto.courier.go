// Package courierdto holds the request bodies of the /couriers routes.
package courierdto

// CourierCreateInput registers a courier for an existing user.
type CourierCreateInput struct {
	UserID      string `json:"userId" validate:"required,object_id,exists=users"`
	Name        string `json:"name" validate:"required,max=100,no_xss"`
	Phone       string `json:"phone" validate:"required,e164"`
	TelegramID  string `json:"telegramId,omitempty" validate:"omitempty,numeric,max=20"`
	ShopID      string `json:"shopId,omitempty" validate:"omitempty,object_id"`
	IsAvailable bool   `json:"isAvailable"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// CourierUpdateInput is a partial update.
type CourierUpdateInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100,no_xss"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,e164"`
	TelegramID  *string `json:"telegramId,omitempty" validate:"omitempty,numeric,max=20"`
	ShopID      *string `json:"shopId,omitempty" validate:"omitempty,object_id"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// AvailabilityInput toggles a courier's availability.
type AvailabilityInput struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

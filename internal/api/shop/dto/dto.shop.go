// Package shopdto holds the request bodies of the /shops routes.
package shopdto

// ShopCreateInput creates a shop.
type ShopCreateInput struct {
	Name            string `json:"name" validate:"required,max=100,no_xss"`
	OwnerID         string `json:"ownerId" validate:"required,object_id,exists=users"`
	TelegramGroupID string `json:"telegramGroupId,omitempty" validate:"omitempty,max=64"`
	OrdersChatID    string `json:"ordersChatId,omitempty" validate:"omitempty,max=64"`
	CouriersChatID  string `json:"couriersChatId,omitempty" validate:"omitempty,max=64"`
	IsActive        *bool  `json:"isActive,omitempty"`
}

// ShopUpdateInput is a partial update. An empty chat id clears it.
type ShopUpdateInput struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=100,no_xss"`
	TelegramGroupID *string `json:"telegramGroupId,omitempty" validate:"omitempty,max=64"`
	OrdersChatID    *string `json:"ordersChatId,omitempty" validate:"omitempty,max=64"`
	CouriersChatID  *string `json:"couriersChatId,omitempty" validate:"omitempty,max=64"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// TelegramGroupInput registers a group or channel.
type TelegramGroupInput struct {
	ChatID   int64  `json:"chatId" validate:"required,ne=0"`
	Title    string `json:"title" validate:"required,max=255,no_xss"`
	Type     string `json:"type" validate:"required,oneof=group supergroup channel"`
	Username string `json:"username,omitempty" validate:"omitempty,max=64"`
	ShopID   string `json:"shopId,omitempty" validate:"omitempty,object_id"`
}

// TelegramGroupUpdateInput assigns a group to a shop or renames it. An empty shopId unassigns it.
type TelegramGroupUpdateInput struct {
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1,max=255,no_xss"`
	ShopID *string `json:"shopId,omitempty" validate:"omitempty,object_id"`
}

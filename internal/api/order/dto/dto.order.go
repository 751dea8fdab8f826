// Package orderdto holds the request bodies of the /orders routes.
package orderdto

// OrderItemInput is one order line.
type OrderItemInput struct {
	Name     string  `json:"name" validate:"required,max=200,no_xss"`
	Quantity int     `json:"quantity" validate:"required,min=1,max=1000"`
	Price    float64 `json:"price" validate:"min=0"`
}

// OrderCreateInput places an order. ClientID defaults to the caller.
type OrderCreateInput struct {
	ShopID          string           `json:"shopId" validate:"required,object_id,exists=shops"`
	ClientID        string           `json:"clientId,omitempty" validate:"omitempty,object_id,exists=users"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string           `json:"deliveryAddress" validate:"required,max=500,no_xss"`
	Notes           string           `json:"notes,omitempty" validate:"max=500,no_xss"`
}

// OrderUpdateInput assigns a courier or corrects the address. An empty courierId unassigns.
type OrderUpdateInput struct {
	CourierID       *string `json:"courierId,omitempty" validate:"omitempty,object_id"`
	DeliveryAddress *string `json:"deliveryAddress,omitempty" validate:"omitempty,min=1,max=500,no_xss"`
}

// StatusChangeInput moves an order.
type StatusChangeInput struct {
	Status string `json:"status" validate:"required,max=64"`
	Notes  string `json:"notes,omitempty" validate:"max=500,no_xss"`
}

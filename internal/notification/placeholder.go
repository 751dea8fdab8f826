// Package notification turns an order status change into delivery queue items:
// it resolves each forwarding destination of the new step to a concrete Telegram
// chat and renders the message text.
package notification

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	couriermodels "delivery_marketplace/internal/api/courier/models"
	ordermodels "delivery_marketplace/internal/api/order/models"
	shopmodels "delivery_marketplace/internal/api/shop/models"
	usermodels "delivery_marketplace/internal/api/user/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-z_]+)\.([a-z_]+)\s*\}\}`)

// ErrUnresolved marks a destination whose placeholder has no value.
var ErrUnresolved = errors.New("unresolved placeholder")

// Finder loads one document by id.
type Finder[T any] interface {
	FindOneById(ctx context.Context, id primitive.ObjectID) (T, error)
}

// Lookup loads the documents placeholders refer to.
type Lookup struct {
	Shops    Finder[shopmodels.Shop]
	Couriers Finder[couriermodels.Courier]
	Users    Finder[usermodels.User]
}

// resolver resolves placeholders for one order, loading each referenced document at most once.
type resolver struct {
	ctx    context.Context
	lookup Lookup
	order  ordermodels.Order
	values map[string]string
	loaded map[string]bool
}

func newResolver(ctx context.Context, lookup Lookup, order ordermodels.Order) *resolver {
	return &resolver{ctx: ctx, lookup: lookup, order: order, values: map[string]string{}, loaded: map[string]bool{}}
}

// Resolve replaces every {{entity.field}} in identifier.
func (r *resolver) Resolve(identifier string) (string, error) {
	var firstErr error
	out := placeholderRe.ReplaceAllStringFunc(identifier, func(m string) string {
		parts := placeholderRe.FindStringSubmatch(m)
		v, err := r.value(parts[1], parts[2])
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", m, err)
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	if strings.Contains(out, "{{") || strings.Contains(out, "}}") {
		return "", fmt.Errorf("%q: %w", identifier, ErrUnresolved)
	}
	return strings.TrimSpace(out), nil
}

func (r *resolver) value(entity, field string) (string, error) {
	key := entity + "." + field
	if v, ok := r.values[key]; ok {
		if v == "" {
			return "", ErrUnresolved
		}
		return v, nil
	}
	if !r.loaded[entity] {
		r.loaded[entity] = true
		if err := r.load(entity); err != nil {
			return "", err
		}
	}
	v, ok := r.values[key]
	if !ok || v == "" {
		r.values[key] = ""
		return "", ErrUnresolved
	}
	return v, nil
}

// load fills values for every field of entity.
func (r *resolver) load(entity string) error {
	switch entity {
	case "shop":
		if r.lookup.Shops == nil {
			return ErrUnresolved
		}
		shop, err := r.lookup.Shops.FindOneById(r.ctx, r.order.ShopID)
		if err != nil {
			return fmt.Errorf("load shop: %w", err)
		}
		r.values["shop.orders_chat_id"] = shop.OrdersChatID
		r.values["shop.couriers_chat_id"] = shop.CouriersChatID
		r.values["shop.telegram_group_id"] = shop.TelegramGroupID
		r.values["shop.name"] = shop.Name
	case "courier":
		if r.order.CourierID == nil || r.lookup.Couriers == nil {
			return ErrUnresolved
		}
		courier, err := r.lookup.Couriers.FindOneById(r.ctx, *r.order.CourierID)
		if err != nil {
			return fmt.Errorf("load courier: %w", err)
		}
		r.values["courier.telegram_id"] = courier.TelegramID
		r.values["courier.name"] = courier.Name
	case "client":
		if r.order.ClientID.IsZero() || r.lookup.Users == nil {
			return ErrUnresolved
		}
		user, err := r.lookup.Users.FindOneById(r.ctx, r.order.ClientID)
		if err != nil {
			return fmt.Errorf("load client: %w", err)
		}
		if user.TelegramID != 0 {
			r.values["client.telegram_id"] = strconv.FormatInt(user.TelegramID, 10)
		}
		r.values["client.name"] = user.FullName()
	default:
		return ErrUnresolved
	}
	return nil
}

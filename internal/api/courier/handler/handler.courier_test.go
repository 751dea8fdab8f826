package courierhdl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/courier/models"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "courier-secret"

type fakeCouriers struct {
	Service
	couriers map[primitive.ObjectID]models.Courier
}

func (f *fakeCouriers) FindOneById(_ context.Context, id primitive.ObjectID) (models.Courier, error) {
	c, ok := f.couriers[id]
	if !ok {
		return models.Courier{}, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeCouriers) SetAvailability(_ context.Context, id primitive.ObjectID, available bool) (models.Courier, error) {
	c, ok := f.couriers[id]
	if !ok {
		return models.Courier{}, common.ErrNotFound
	}
	c.IsAvailable = available
	f.couriers[id] = c
	return c, nil
}

func TestSetAvailability_CourierOnlyItself(t *testing.T) {
	userID := primitive.NewObjectID()
	courierID := primitive.NewObjectID()
	fake := &fakeCouriers{couriers: map[primitive.ObjectID]models.Courier{
		courierID: {ID: courierID, UserID: userID, Name: "Rider"},
	}}
	h := NewCourierHandler(fake)
	app := fiber.New()
	app.Put("/couriers/:id/availability", middleware.AuthMiddleware(secret), h.SetAvailability)

	send := func(asUser, role string) int {
		req := httptest.NewRequest(http.MethodPut, "/couriers/"+courierID.Hex()+"/availability", strings.NewReader(`{"isAvailable":true}`))
		req.Header.Set("Content-Type", "application/json")
		tok, err := middleware.IssueToken(secret, asUser, role, "", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusForbidden, send(primitive.NewObjectID().Hex(), basemodels.RoleCourier))
	assert.False(t, fake.couriers[courierID].IsAvailable)

	assert.Equal(t, http.StatusOK, send(userID.Hex(), basemodels.RoleCourier))
	assert.True(t, fake.couriers[courierID].IsAvailable)

	assert.Equal(t, http.StatusOK, send(primitive.NewObjectID().Hex(), basemodels.RoleAdmin))
}

func TestSetAvailability_RequiresField(t *testing.T) {
	h := NewCourierHandler(&fakeCouriers{couriers: map[primitive.ObjectID]models.Courier{}})
	app := fiber.New()
	app.Put("/couriers/:id/availability", h.SetAvailability)

	req := httptest.NewRequest(http.MethodPut, "/couriers/"+primitive.NewObjectID().Hex()+"/availability", strings.NewReader(`{}`))
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

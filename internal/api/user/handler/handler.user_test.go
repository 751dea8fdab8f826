package userhdl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	basesvc "delivery_marketplace/internal/api/base/service"
	userdto "delivery_marketplace/internal/api/user/dto"
	"delivery_marketplace/internal/api/user/models"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	Service
	lastQuery string
	users     []models.User
}

func (f *fakeUsers) Suggest(_ context.Context, q string) ([]models.User, error) {
	f.lastQuery = q
	return f.users, nil
}

func TestSuggestions(t *testing.T) {
	fake := &fakeUsers{users: []models.User{{TelegramID: 7, FirstName: "Ann"}}}
	h := NewUserHandler(fake)
	app := fiber.New()
	app.Get("/users/suggestions", h.Suggestions)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/suggestions?q=an", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "an", fake.lastQuery)

	var body struct {
		Data []models.User `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(7), body.Data[0].TelegramID)
}

func TestToUpdate_ClearsShop(t *testing.T) {
	empty := ""
	name := "Zed"
	update, err := toUpdate(nil, &userdto.UserUpdateInput{ShopID: &empty, FirstName: &name})
	require.NoError(t, err)
	data := update.(*basesvc.UpdateData)
	assert.Equal(t, "Zed", data.Set["firstName"])
	assert.Contains(t, data.Unset, "shopId")
	assert.NotContains(t, data.Set, "shopId")
}

func TestToModel_DefaultsActive(t *testing.T) {
	u, err := toModel(nil, &userdto.UserCreateInput{TelegramID: 1, FirstName: "A", Role: "client", ShopID: "64b7f0c2a1b2c3d4e5f60718"})
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.ShopID)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", u.ShopID.Hex())
}

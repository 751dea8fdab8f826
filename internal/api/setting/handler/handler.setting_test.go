package settinghdl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"delivery_marketplace/internal/api/setting/models"
	"delivery_marketplace/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSettings struct {
	Service
	byKey map[string]models.Setting
}

func (f *fakeSettings) InsertOne(_ context.Context, s models.Setting) (models.Setting, error) {
	s.ID = primitive.NewObjectID()
	f.byKey[s.Key] = s
	return s, nil
}

func (f *fakeSettings) FindByKey(_ context.Context, key string) (models.Setting, error) {
	s, ok := f.byKey[key]
	if !ok {
		return models.Setting{}, common.ErrNotFound
	}
	return s, nil
}

func newApp() (*fiber.App, *fakeSettings) {
	fake := &fakeSettings{byKey: map[string]models.Setting{}}
	h := NewSettingHandler(fake)
	app := fiber.New()
	app.Post("/settings", h.InsertOne)
	app.Get("/settings/key/:key", h.FindByKey)
	return app, fake
}

func post(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestCreateSetting_ValueMustFitType(t *testing.T) {
	app, fake := newApp()

	assert.Equal(t, http.StatusBadRequest, post(t, app, `{"key":"a","flagType":"bool","value":"yes"}`))
	assert.Equal(t, http.StatusBadRequest, post(t, app, `{"key":"b","flagType":"text","value":5}`))
	assert.Equal(t, http.StatusBadRequest, post(t, app, `{"key":"c","flagType":"select","value":"x"}`))
	assert.Equal(t, http.StatusBadRequest, post(t, app, `{"key":"d","flagType":"select","value":"x","options":["y"]}`))
	assert.Equal(t, http.StatusBadRequest, post(t, app, `{"key":"e","flagType":"color","value":"x"}`))
	assert.Empty(t, fake.byKey)

	assert.Equal(t, http.StatusCreated, post(t, app, `{"key":"orders.enabled","flagType":"bool","value":false}`))
	assert.Equal(t, http.StatusCreated, post(t, app, `{"key":"banner","flagType":"text","value":"Hello"}`))
	assert.Equal(t, http.StatusCreated, post(t, app, `{"key":"theme","flagType":"select","value":"dark","options":["light","dark"]}`))
	assert.Equal(t, false, fake.byKey["orders.enabled"].Value)
	assert.True(t, fake.byKey["theme"].IsActive)
}

func TestFindByKey(t *testing.T) {
	app, _ := newApp()
	require.Equal(t, http.StatusCreated, post(t, app, `{"key":"banner","flagType":"text","value":"Hi"}`))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/settings/key/banner", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/settings/key/missing", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

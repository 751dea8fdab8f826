package basehdl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type widget struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}

type widgetInput struct {
	Name string `json:"name" validate:"required,min=2"`
}

type fakeWidgets struct {
	items      map[primitive.ObjectID]widget
	lastFilter interface{}
	lastLimit  int64
}

func newFakeWidgets() *fakeWidgets {
	return &fakeWidgets{items: map[primitive.ObjectID]widget{}}
}

func (f *fakeWidgets) InsertOne(_ context.Context, w widget) (widget, error) {
	w.ID = primitive.NewObjectID()
	f.items[w.ID] = w
	return w, nil
}

func (f *fakeWidgets) FindOneById(_ context.Context, id primitive.ObjectID) (widget, error) {
	w, ok := f.items[id]
	if !ok {
		return widget{}, common.ErrNotFound
	}
	return w, nil
}

func (f *fakeWidgets) FindWithPagination(_ context.Context, filter interface{}, page, limit int64, _ *options.FindOptions) (*basemodels.PaginateResult[widget], error) {
	f.lastFilter = filter
	f.lastLimit = limit
	items := make([]widget, 0, len(f.items))
	for _, w := range f.items {
		items = append(items, w)
	}
	return basemodels.NewPaginateResult(items, page, limit, int64(len(items))), nil
}

func (f *fakeWidgets) UpdateById(_ context.Context, id primitive.ObjectID, data interface{}) (widget, error) {
	w, ok := f.items[id]
	if !ok {
		return widget{}, common.ErrNotFound
	}
	if m, ok := data.(map[string]interface{}); ok {
		w.Name, _ = m["name"].(string)
	}
	f.items[id] = w
	return w, nil
}

func (f *fakeWidgets) DeleteById(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newWidgetApp(svc *fakeWidgets) *fiber.App {
	h := NewBaseHandler[widget, widgetInput, widgetInput](svc, "widget")
	h.ToModel = func(_ fiber.Ctx, in *widgetInput) (widget, error) {
		return widget{Name: in.Name}, nil
	}
	h.ToUpdate = func(_ fiber.Ctx, in *widgetInput) (interface{}, error) {
		return map[string]interface{}{"name": in.Name}, nil
	}

	app := fiber.New()
	app.Get("/widgets", h.FindWithPagination)
	app.Get("/widgets/:id", h.FindOneById)
	app.Post("/widgets", h.InsertOne)
	app.Put("/widgets/:id", h.UpdateById)
	app.Delete("/widgets/:id", h.DeleteById)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestBaseHandler_CreateAndGet(t *testing.T) {
	svc := newFakeWidgets()
	app := newWidgetApp(svc)

	status, body := doJSON(t, app, http.MethodPost, "/widgets", `{"name":"crate"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	id := data["_id"].(string)

	status, body = doJSON(t, app, http.MethodGet, "/widgets/"+id, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "crate", body["data"].(map[string]interface{})["name"])
	assert.Equal(t, "success", body["status"])
}

func TestBaseHandler_ValidationErrorsCarryFieldMap(t *testing.T) {
	app := newWidgetApp(newFakeWidgets())

	status, body := doJSON(t, app, http.MethodPost, "/widgets", `{"name":""}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VAL_001", body["code"])

	details := body["details"].(map[string]interface{})
	fields := details["errors"].(map[string]interface{})
	assert.Equal(t, "is required", fields["name"])
}

func TestBaseHandler_MalformedJSON(t *testing.T) {
	app := newWidgetApp(newFakeWidgets())

	status, body := doJSON(t, app, http.MethodPost, "/widgets", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_002", body["code"])
}

func TestBaseHandler_InvalidAndMissingIDs(t *testing.T) {
	app := newWidgetApp(newFakeWidgets())

	status, body := doJSON(t, app, http.MethodGet, "/widgets/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_002", body["code"])

	status, _ = doJSON(t, app, http.MethodGet, "/widgets/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/widgets/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBaseHandler_UpdateAndDelete(t *testing.T) {
	svc := newFakeWidgets()
	app := newWidgetApp(svc)
	w, _ := svc.InsertOne(context.Background(), widget{Name: "old"})

	status, body := doJSON(t, app, http.MethodPut, "/widgets/"+w.ID.Hex(), `{"name":"new"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new", body["data"].(map[string]interface{})["name"])

	status, _ = doJSON(t, app, http.MethodDelete, "/widgets/"+w.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, svc.items)
}

func TestBaseHandler_PaginationMetaAndLimitCap(t *testing.T) {
	svc := newFakeWidgets()
	app := newWidgetApp(svc)
	for _, n := range []string{"a1", "b2", "c3"} {
		_, _ = svc.InsertOne(context.Background(), widget{Name: n})
	}

	status, body := doJSON(t, app, http.MethodGet, "/widgets?page=1&limit=500", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(MaxPageLimit), svc.lastLimit)
	assert.Len(t, body["data"], 3)

	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(1), meta["page"])
}

func TestHandleError_UnknownErrorIsInternal(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c fiber.Ctx) error {
		return HandleError(c, errors.New("socket closed"))
	})

	status, body := doJSON(t, app, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "SYS_001", body["code"])
	assert.Equal(t, common.MsgInternalError, body["message"])
}

func TestSafeHandler_RecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Get("/panic", func(c fiber.Ctx) error {
		return SafeHandler(c, func() error {
			panic("nil map")
		})
	})

	status, body := doJSON(t, app, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "error", body["status"])
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

func TestHandleHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", NewSystemHandler(fakePinger{}).HandleHealth)
	app.Get("/down", NewSystemHandler(fakePinger{err: errors.New("no primary")}).HandleHealth)

	status, body := doJSON(t, app, http.MethodGet, "/ok", "")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "ok", data["services"].(map[string]interface{})["database"])

	status, body = doJSON(t, app, http.MethodGet, "/down", "")
	require.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["data"].(map[string]interface{})["status"])
}

func TestParsePagination_Defaults(t *testing.T) {
	app := fiber.New()
	app.Get("/p", func(c fiber.Ctx) error {
		page, limit := ParsePagination(c)
		return c.JSON(fiber.Map{"page": page, "limit": limit})
	})

	_, body := doJSON(t, app, http.MethodGet, "/p?page=-3&limit=abc", "")
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(DefaultPageLimit), body["limit"])
}

package supporthdl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/api/middleware"
	supportdto "delivery_marketplace/internal/api/support/dto"
	"delivery_marketplace/internal/api/support/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "support-secret"

type fakeTickets struct {
	Service
	tickets map[primitive.ObjectID]models.SupportTicket
	staff   bool
}

func (f *fakeTickets) FindOneById(_ context.Context, id primitive.ObjectID) (models.SupportTicket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return models.SupportTicket{}, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeTickets) AddReply(_ context.Context, id primitive.ObjectID, reply models.TicketReply, staff bool) (models.SupportTicket, error) {
	t := f.tickets[id]
	t.Replies = append(t.Replies, reply)
	f.tickets[id] = t
	f.staff = staff
	return t, nil
}

func (f *fakeTickets) SetStatus(_ context.Context, id primitive.ObjectID, status string) (models.SupportTicket, error) {
	t := f.tickets[id]
	t.Status = status
	f.tickets[id] = t
	return t, nil
}

func TestTicketOwnership(t *testing.T) {
	owner := primitive.NewObjectID().Hex()
	ticketID := primitive.NewObjectID()
	fake := &fakeTickets{tickets: map[primitive.ObjectID]models.SupportTicket{
		ticketID: {ID: ticketID, UserID: owner, Status: models.TicketOpen, Replies: []models.TicketReply{}},
	}}
	h := NewSupportHandler(fake)
	app := fiber.New()
	auth := middleware.AuthMiddleware(secret)
	app.Get("/tickets/:id", auth, h.FindOneById)
	app.Post("/tickets/:id/replies", auth, h.AddReply)
	app.Put("/tickets/:id/status", auth, h.SetStatus)

	do := func(method, path, body, user, role string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		tok, err := middleware.IssueToken(secret, user, role, "", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	base := "/tickets/" + ticketID.Hex()

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, base, "", primitive.NewObjectID().Hex(), basemodels.RoleClient))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, base, "", owner, basemodels.RoleClient))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, base, "", primitive.NewObjectID().Hex(), basemodels.RoleAdmin))

	assert.Equal(t, http.StatusCreated, do(http.MethodPost, base+"/replies", `{"message":"still waiting"}`, owner, basemodels.RoleClient))
	assert.False(t, fake.staff)
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, base+"/replies", `{"message":"on it"}`, primitive.NewObjectID().Hex(), basemodels.RoleAdmin))
	assert.True(t, fake.staff)
	assert.Len(t, fake.tickets[ticketID].Replies, 2)

	assert.Equal(t, http.StatusForbidden, do(http.MethodPut, base+"/status", `{"status":"resolved"}`, owner, basemodels.RoleClient))
	assert.Equal(t, http.StatusOK, do(http.MethodPut, base+"/status", `{"status":"closed"}`, owner, basemodels.RoleClient))
	assert.Equal(t, models.TicketClosed, fake.tickets[ticketID].Status)
}

func TestTicketCreateDefaults(t *testing.T) {
	h := NewSupportHandler(&fakeTickets{})
	app := fiber.New()
	var got models.SupportTicket
	app.Post("/tickets", func(c fiber.Ctx) error {
		c.Locals(logger.LocalUserID, "u1")
		var err error
		got, err = h.ToModel(c, &supportdto.TicketCreateInput{Subject: "Late", Message: "Where is it?"})
		return err
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/tickets", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, models.TicketOpen, got.Status)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.NotNil(t, got.Replies)
	assert.Nil(t, got.OrderID)
	assert.Equal(t, "u1", got.UserID)
}

package shopsvc

import (
	"testing"

	"delivery_marketplace/internal/api/shop/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchesGroupQuery(t *testing.T) {
	g := models.TelegramGroup{ChatID: -1001234567, Title: "Pizza Orders", Username: "pizza_orders", Type: models.ChatTypeSupergroup}

	assert.True(t, MatchesGroupQuery(g, "-100123"))
	assert.True(t, MatchesGroupQuery(g, "4567"))
	assert.True(t, MatchesGroupQuery(g, "@Pizza_"))
	assert.True(t, MatchesGroupQuery(g, "orders"))
	assert.True(t, MatchesGroupQuery(g, ""))
	assert.False(t, MatchesGroupQuery(g, "sushi"))
}

func TestChatTypes(t *testing.T) {
	assert.Equal(t, []string{models.ChatTypeGroup, models.ChatTypeSupergroup}, chatTypes("telegram_group"))
	assert.Equal(t, []string{models.ChatTypeChannel}, chatTypes("channel"))
	assert.Nil(t, chatTypes(""))
}

// Package shopsvc stores shops and the Telegram groups the bot belongs to.
package shopsvc

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/shop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SuggestionLimit caps autocomplete results.
const SuggestionLimit = 20

// ShopService is the shop CRUD service.
type ShopService struct {
	*basesvc.BaseServiceMongoImpl[models.Shop]
}

// NewShopService wraps the shops collection.
func NewShopService(collection *mongo.Collection) *ShopService {
	return &ShopService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Shop](collection)}
}

// TelegramGroupService stores telegram_groups.
type TelegramGroupService struct {
	*basesvc.BaseServiceMongoImpl[models.TelegramGroup]
}

// NewTelegramGroupService wraps the telegram_groups collection.
func NewTelegramGroupService(collection *mongo.Collection) *TelegramGroupService {
	return &TelegramGroupService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.TelegramGroup](collection)}
}

// Unassigned lists groups that no shop has claimed.
func (s *TelegramGroupService) Unassigned(ctx context.Context) ([]models.TelegramGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	return s.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"shopId": bson.M{"$exists": false}},
		bson.M{"shopId": nil},
	}}, opts)
}

// chatTypes maps the destination kind asked for to stored chat types.
// "group" covers supergroups too.
func chatTypes(kind string) []string {
	switch kind {
	case "group", "telegram_group":
		return []string{models.ChatTypeGroup, models.ChatTypeSupergroup}
	case "channel", "telegram_channel":
		return []string{models.ChatTypeChannel}
	}
	return nil
}

// MatchesGroupQuery matches chatId substring, or username or title substring ignoring case.
func MatchesGroupQuery(g models.TelegramGroup, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	if strings.Contains(strconv.FormatInt(g.ChatID, 10), q) {
		return true
	}
	lower := strings.ToLower(q)
	if g.Username != "" && strings.Contains(strings.ToLower(g.Username), strings.TrimPrefix(lower, "@")) {
		return true
	}
	return strings.Contains(strings.ToLower(g.Title), lower)
}

// Suggest returns up to SuggestionLimit groups of kind (group, channel or any) matching q.
func (s *TelegramGroupService) Suggest(ctx context.Context, q, kind string) ([]models.TelegramGroup, error) {
	filter := bson.M{}
	if types := chatTypes(kind); types != nil {
		filter["type"] = bson.M{"$in": types}
	}
	if q = strings.TrimSpace(q); q != "" {
		text := regexp.QuoteMeta(q)
		filter["$or"] = bson.A{
			bson.M{"$expr": bson.M{"$regexMatch": bson.M{"input": bson.M{"$toString": "$chatId"}, "regex": text}}},
			bson.M{"username": bson.M{"$regex": regexp.QuoteMeta(strings.TrimPrefix(q, "@")), "$options": "i"}},
			bson.M{"title": bson.M{"$regex": text, "$options": "i"}},
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}}).SetLimit(SuggestionLimit)
	groups, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := groups[:0]
	for _, g := range groups {
		if MatchesGroupQuery(g, q) {
			out = append(out, g)
		}
	}
	return out, nil
}

// Package usersvc stores marketplace users and answers the destination autocomplete.
package usersvc

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	basesvc "delivery_marketplace/internal/api/base/service"
	"delivery_marketplace/internal/api/user/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SuggestionLimit caps autocomplete results.
const SuggestionLimit = 20

// UserService is the user CRUD service.
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserService wraps the users collection.
func NewUserService(collection *mongo.Collection) *UserService {
	return &UserService{BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](collection)}
}

// MatchesQuery reports whether u matches an autocomplete query: telegramId substring,
// username substring, or full name substring, the last two case-insensitive.
func MatchesQuery(u models.User, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	if strings.Contains(strconv.FormatInt(u.TelegramID, 10), q) {
		return true
	}
	lower := strings.ToLower(q)
	if u.Username != "" && strings.Contains(strings.ToLower(u.Username), strings.TrimPrefix(lower, "@")) {
		return true
	}
	return strings.Contains(strings.ToLower(u.FullName()), lower)
}

func suggestionFilter(q string) bson.M {
	q = strings.TrimSpace(q)
	if q == "" {
		return bson.M{"isActive": true}
	}
	text := regexp.QuoteMeta(q)
	username := regexp.QuoteMeta(strings.TrimPrefix(q, "@"))
	fullName := bson.M{"$trim": bson.M{"input": bson.M{"$concat": bson.A{
		bson.M{"$ifNull": bson.A{"$firstName", ""}}, " ", bson.M{"$ifNull": bson.A{"$lastName", ""}},
	}}}}
	return bson.M{
		"isActive": true,
		"$expr": bson.M{"$or": bson.A{
			bson.M{"$regexMatch": bson.M{"input": bson.M{"$toString": "$telegramId"}, "regex": text}},
			bson.M{"$regexMatch": bson.M{"input": bson.M{"$ifNull": bson.A{"$username", ""}}, "regex": username, "options": "i"}},
			bson.M{"$regexMatch": bson.M{"input": fullName, "regex": text, "options": "i"}},
		}},
	}
}

// Suggest returns up to SuggestionLimit active users matching q, newest first.
// An empty q returns the newest users.
func (s *UserService) Suggest(ctx context.Context, q string) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(SuggestionLimit)
	users, err := s.Find(ctx, suggestionFilter(q), opts)
	if err != nil {
		return nil, err
	}
	// Mongo and Go fold case differently for a few scripts; keep only what MatchesQuery accepts.
	out := users[:0]
	for _, u := range users {
		if MatchesQuery(u, q) {
			out = append(out, u)
		}
	}
	return out, nil
}

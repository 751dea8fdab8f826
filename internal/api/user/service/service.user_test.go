package usersvc

import (
	"testing"

	"delivery_marketplace/internal/api/user/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMatchesQuery(t *testing.T) {
	u := models.User{TelegramID: 987654321, Username: "OrderBot", FirstName: "Anna", LastName: "Karenina"}

	cases := []struct {
		q    string
		want bool
	}{
		{"6543", true},         // telegramId substring
		{"derb", true},         // username substring, case-insensitive
		{"@orderbot", true},    // leading @ is ignored
		{"anna kar", true},     // full name, case-insensitive
		{"KARENINA", true},     // last name alone
		{"nna K", true},        // spans first and last name
		{"vronsky", false},     // no match
		{"12345678901", false}, // longer than the id
		{"", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchesQuery(u, tc.q), "query %q", tc.q)
	}
}

func TestMatchesQuery_NoUsername(t *testing.T) {
	u := models.User{TelegramID: 42, FirstName: "Bob"}
	assert.False(t, MatchesQuery(u, "alice"))
	assert.True(t, MatchesQuery(u, "bo"))
}

func TestSuggestionFilter_QuotesRegex(t *testing.T) {
	f := suggestionFilter("a.b*")
	expr := f["$expr"].(bson.M)["$or"].(bson.A)
	first := expr[0].(bson.M)["$regexMatch"].(bson.M)
	assert.Equal(t, `a\.b\*`, first["regex"])

	empty := suggestionFilter("  ")
	_, hasExpr := empty["$expr"]
	assert.False(t, hasExpr)
}

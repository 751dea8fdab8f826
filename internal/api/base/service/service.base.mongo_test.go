package basesvc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type flagDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Key       string             `bson:"key" index:"unique"`
	Handle    string             `bson:"handle" index:"unique,sparse"`
	Value     interface{}        `bson:"value"`
	Note      string             `bson:"note"`
	Owner     string             `bson:"owner" index:"single:1"`
	CreatedAt int64              `bson:"createdAt"`
	UpdatedAt int64              `bson:"updatedAt"`
}

func TestInsertDocument_KeepsEmptyValues(t *testing.T) {
	s := NewBaseServiceMongo[flagDoc](nil)

	doc, err := s.insertDocument(flagDoc{Key: "support_contact", Value: ""}, 1700000000000)
	require.NoError(t, err)

	// unique-indexed empty strings are dropped so sparse indexes skip them
	assert.NotContains(t, doc, "handle")
	assert.Contains(t, doc, "key")

	value, ok := doc["value"]
	assert.True(t, ok)
	assert.Equal(t, "", value)
	assert.Equal(t, "", doc["note"])
	assert.Equal(t, "", doc["owner"])
	assert.Equal(t, int64(1700000000000), doc["createdAt"])
	assert.Equal(t, int64(1700000000000), doc["updatedAt"])
}

func TestUniqueIndexFields(t *testing.T) {
	assert.Equal(t, map[string]bool{"key": true, "handle": true}, uniqueIndexFields(reflect.TypeOf(&flagDoc{})))
	assert.Empty(t, uniqueIndexFields(reflect.TypeOf(0)))
}

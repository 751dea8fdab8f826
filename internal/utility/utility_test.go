package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" bson:"name"`
	Optional string `json:"optional,omitempty" bson:"optional,omitempty"`
}

func TestToMap_UsesBsonTags(t *testing.T) {
	m, err := ToMap(sample{Name: "flow"})
	require.NoError(t, err)
	assert.Equal(t, "flow", m["name"])
	_, has := m["optional"]
	assert.False(t, has)
}

func TestBsonWrapper_ToUpdate(t *testing.T) {
	update, err := BsonWrapper{Set: sample{Name: "x"}, Inc: map[string]int{"version": 1}}.ToUpdate()
	require.NoError(t, err)
	assert.Contains(t, update, "$set")
	assert.Contains(t, update, "$inc")
	assert.NotContains(t, update, "$unset")
}

func TestConvertStruct(t *testing.T) {
	var out sample
	_, err := ConvertStruct(map[string]string{"name": "copied"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "copied", out.Name)
}

func TestSliceHelpers(t *testing.T) {
	assert.True(t, Contains([]string{"admin", "courier"}, "courier"))
	assert.False(t, Contains([]string{"admin"}, "client"))
	assert.Equal(t, []string{"a", "b"}, Unique([]string{"a", "b", "a"}))
}

func TestGoProtect(t *testing.T) {
	assert.NotPanics(t, func() { GoProtect(func() { panic("boom") }) })
}

package registry

import (
	"errors"
	"testing"

	"delivery_marketplace/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("orders", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("orders", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok := r.Get("orders")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.True(t, errors.Is(err, common.ErrRequiredField))
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry[string]()
	calls := 0
	create := func() (string, error) {
		calls++
		return "telegram", nil
	}

	v, err := r.GetOrCreate("sender", create)
	require.NoError(t, err)
	assert.Equal(t, "telegram", v)

	_, err = r.GetOrCreate("sender", create)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = r.GetOrCreate("broken", func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	_, ok := r.Get("broken")
	assert.False(t, ok)
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry[int]()
	_, _ = r.Register("a", 1)
	_, _ = r.Register("b", 2)
	assert.Equal(t, []string{"a", "b"}, r.Names())

	cleaned := 0
	deleted, err := r.Clear("a", func(int) error { cleaned++; return nil })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 1, cleaned)

	deleted, err = r.Clear("missing", nil)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := r.ClearAll(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, r.Names())
}

func TestRegistry_MustGetPanics(t *testing.T) {
	r := NewRegistry[int]()
	assert.Panics(t, func() { r.MustGet("nope") })
}

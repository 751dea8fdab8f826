package settingsvc

import (
	"testing"

	"delivery_marketplace/internal/api/setting/models"
	"delivery_marketplace/internal/global"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeUpdate(t *testing.T) {
	sel := models.Setting{Key: "theme", FlagType: global.FlagTypeSelect, Value: "light", Options: []string{"light", "dark"}}

	update, err := MergeUpdate(sel, "dark", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "dark", update.Set["value"])

	_, err = MergeUpdate(sel, "blue", nil, nil, nil)
	assert.Error(t, err)

	// dropping the current value from options is refused
	_, err = MergeUpdate(sel, nil, []string{"dark"}, nil, nil)
	assert.Error(t, err)

	update, err = MergeUpdate(sel, "blue", []string{"blue", "dark"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"blue", "dark"}, update.Set["options"])

	flag := models.Setting{Key: "orders.enabled", FlagType: global.FlagTypeBool, Value: true}
	_, err = MergeUpdate(flag, "false", nil, nil, nil)
	assert.Error(t, err)
	off := false
	update, err = MergeUpdate(flag, false, nil, nil, &off)
	require.NoError(t, err)
	assert.Equal(t, false, update.Set["isActive"])
}

func TestMergeUpdate_EmptyTextFlag(t *testing.T) {
	contact := models.Setting{Key: "support_contact", FlagType: global.FlagTypeText, Value: ""}
	desc := "Shown on the support page"
	update, err := MergeUpdate(contact, nil, nil, &desc, nil)
	require.NoError(t, err)
	assert.Equal(t, desc, update.Set["description"])
	assert.NotContains(t, update.Set, "value")
}

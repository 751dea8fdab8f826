package settingsvc

import (
	"testing"

	"delivery_marketplace/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults_Embedded(t *testing.T) {
	defaults, err := LoadDefaults(config.DefaultSettingsYAML)
	require.NoError(t, err)
	require.NotEmpty(t, defaults)

	byKey := map[string]interface{}{}
	for _, d := range defaults {
		byKey[d.Key] = d.Value
	}
	assert.Equal(t, true, byKey["telegram_forwarding_enabled"])
	assert.Equal(t, "USD", byKey["default_currency"])
}

func TestLoadDefaults_Rejects(t *testing.T) {
	_, err := LoadDefaults([]byte("- {key: a, flagType: bool, value: yes please}"))
	assert.Error(t, err)

	_, err = LoadDefaults([]byte("- {key: a, flagType: select, value: x, options: [y]}"))
	assert.Error(t, err)

	_, err = LoadDefaults([]byte("- {key: a, flagType: text, value: x}\n- {key: a, flagType: text, value: y}"))
	assert.Error(t, err)
}

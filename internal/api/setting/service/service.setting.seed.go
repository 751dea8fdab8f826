package settingsvc

import (
	"fmt"

	"delivery_marketplace/internal/api/setting/models"
	"delivery_marketplace/internal/global"

	"gopkg.in/yaml.v3"
)

// LoadDefaults parses a YAML list of flags and checks each value against its type.
func LoadDefaults(data []byte) ([]models.Setting, error) {
	var defaults []models.Setting
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("parse settings seed: %w", err)
	}
	seen := map[string]bool{}
	for _, d := range defaults {
		if d.Key == "" {
			return nil, fmt.Errorf("settings seed: flag without key")
		}
		if seen[d.Key] {
			return nil, fmt.Errorf("settings seed: duplicate key %q", d.Key)
		}
		seen[d.Key] = true
		if !global.CheckFlagValue(d.FlagType, d.Options, d.Value) {
			return nil, fmt.Errorf("settings seed: %q has a value that does not fit flag type %q", d.Key, d.FlagType)
		}
	}
	return defaults, nil
}

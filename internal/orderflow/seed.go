package orderflow

import (
	"fmt"

	"delivery_marketplace/internal/api/orderflow/models"

	"gopkg.in/yaml.v3"
)

// LoadSeed parses a flow document in YAML, normalizes and validates it.
func LoadSeed(data []byte) (models.OrderFlow, error) {
	var flow models.OrderFlow
	if err := yaml.Unmarshal(data, &flow); err != nil {
		return models.OrderFlow{}, fmt.Errorf("parse order flow seed: %w", err)
	}
	Normalize(&flow)
	if err := Validate(flow); err != nil {
		return models.OrderFlow{}, fmt.Errorf("order flow seed: %w", err)
	}
	return flow, nil
}

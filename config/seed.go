package config

import _ "embed"

// DefaultOrderFlowYAML is the flow seeded in init mode when no default flow exists.
//
//go:embed seed/default_order_flow.yaml
var DefaultOrderFlowYAML []byte

// DefaultSettingsYAML lists the feature flags seeded in init mode.
//
//go:embed seed/default_settings.yaml
var DefaultSettingsYAML []byte

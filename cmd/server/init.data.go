package main

import (
	"context"
	"time"

	"delivery_marketplace/config"
	orderflowsvc "delivery_marketplace/internal/api/orderflow/service"
	settingsvc "delivery_marketplace/internal/api/setting/service"
	"delivery_marketplace/internal/logger"
	"delivery_marketplace/internal/orderflow"
)

// InitDefaultData seeds the default order flow and the feature flags. Existing data is left alone.
func InitDefaultData(flows *orderflowsvc.OrderFlowService, settings *settingsvc.SettingService) {
	log := logger.GetAppLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seed, err := orderflow.LoadSeed(config.DefaultOrderFlowYAML)
	if err != nil {
		log.Fatalf("Failed to parse default order flow: %v", err)
	}
	flow, created, err := flows.EnsureDefaultFlow(ctx, seed)
	if err != nil {
		log.Fatalf("Failed to ensure default order flow: %v", err)
	}
	log.WithFields(map[string]interface{}{
		"flow":    flow.Name,
		"steps":   len(flow.Steps),
		"created": created,
	}).Info("[INIT] Default order flow ready")

	defaults, err := settingsvc.LoadDefaults(config.DefaultSettingsYAML)
	if err != nil {
		log.Fatalf("Failed to parse default settings: %v", err)
	}
	inserted, err := settings.EnsureDefaults(ctx, defaults)
	if err != nil {
		log.Fatalf("Failed to ensure default settings: %v", err)
	}
	log.WithField("inserted", inserted).Info("[INIT] Default settings ready")
}

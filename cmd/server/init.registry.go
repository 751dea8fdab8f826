package main

import (
	"context"
	"time"

	couriermodels "delivery_marketplace/internal/api/courier/models"
	deliverymodels "delivery_marketplace/internal/api/delivery/models"
	ordermodels "delivery_marketplace/internal/api/order/models"
	orderflowmodels "delivery_marketplace/internal/api/orderflow/models"
	settingmodels "delivery_marketplace/internal/api/setting/models"
	shopmodels "delivery_marketplace/internal/api/shop/models"
	supportmodels "delivery_marketplace/internal/api/support/models"
	usermodels "delivery_marketplace/internal/api/user/models"
	"delivery_marketplace/internal/database"
	"delivery_marketplace/internal/global"
	"delivery_marketplace/internal/logger"
)

// InitRegistry registers every collection, creates missing ones and syncs indexes from the model tags.
func InitRegistry() {
	log := logger.GetAppLogger()
	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	if _, err := global.RegistryDatabase.Register(db.Name(), db); err != nil {
		log.Fatalf("Failed to register database: %v", err)
	}

	names := global.MongoDB_ColNames
	models := map[string]interface{}{
		names.OrderFlows:      orderflowmodels.OrderFlow{},
		names.Orders:          ordermodels.Order{},
		names.Shops:           shopmodels.Shop{},
		names.TelegramGroups:  shopmodels.TelegramGroup{},
		names.Users:           usermodels.User{},
		names.Couriers:        couriermodels.Courier{},
		names.Settings:        settingmodels.Setting{},
		names.SupportTickets:  supportmodels.SupportTicket{},
		names.DeliveryQueue:   deliverymodels.DeliveryQueueItem{},
		names.DeliveryHistory: deliverymodels.DeliveryHistory{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	colNames := make([]string, 0, len(models))
	for name := range models {
		colNames = append(colNames, name)
	}
	if err := database.EnsureCollections(ctx, db, colNames); err != nil {
		log.Fatalf("Failed to ensure collections: %v", err)
	}

	for name, model := range models {
		coll := db.Collection(name)
		if _, err := global.RegistryCollections.Register(name, coll); err != nil {
			log.Fatalf("Failed to register collection %s: %v", name, err)
		}
		if err := database.CreateIndexes(ctx, coll, model); err != nil {
			log.WithError(err).WithField("collection", name).Error("Failed to create indexes")
		}
	}
	log.WithField("collections", len(models)).Info("Initialized collection registry")
}

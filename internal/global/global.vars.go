package global

import (
	"delivery_marketplace/config"
	"delivery_marketplace/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName holds the MongoDB collection names.
type MongoDB_CollectionName struct {
	OrderFlows      string
	Orders          string
	Shops           string
	TelegramGroups  string
	Users           string
	Couriers        string
	Settings        string
	SupportTickets  string
	DeliveryQueue   string
	DeliveryHistory string
}

// Globals
var Validate *validator.Validate
var MongoDB_Session *mongo.Client
var MongoDB_ServerConfig *config.Configuration
var MongoDB_ColNames = MongoDB_CollectionName{
	OrderFlows:      "order_flows",
	Orders:          "orders",
	Shops:           "shops",
	TelegramGroups:  "telegram_groups",
	Users:           "users",
	Couriers:        "couriers",
	Settings:        "settings",
	SupportTickets:  "support_tickets",
	DeliveryQueue:   "delivery_queue",
	DeliveryHistory: "delivery_history",
}

// Registries
var RegistryCollections = registry.NewRegistry[*mongo.Collection]()
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()

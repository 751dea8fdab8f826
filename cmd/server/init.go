package main

import (
	"context"
	"time"

	"delivery_marketplace/config"
	"delivery_marketplace/internal/cache"
	"delivery_marketplace/internal/database"
	"delivery_marketplace/internal/global"

	"github.com/sirupsen/logrus"
)

// InitGlobal loads the configuration, the validator and the Mongo client.
func InitGlobal() {
	initConfig()
	initValidator()
	initDatabase_MongoDB()
}

func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatal("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")
}

// initCache picks Redis when REDIS_ADDR is set and falls back to the in-process cache.
func initCache(ctx context.Context, cfg *config.Configuration) cache.Cache {
	if cfg.RedisAddr == "" {
		logrus.Info("Using in-memory flow cache")
		return cache.NewMemoryCache(time.Minute)
	}
	c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "delivery:")
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, using in-memory flow cache")
		return cache.NewMemoryCache(time.Minute)
	}
	logrus.WithField("addr", cfg.RedisAddr).Info("Using Redis flow cache")
	return c
}

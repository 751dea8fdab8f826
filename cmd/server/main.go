package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"delivery_marketplace/internal/database"
	"delivery_marketplace/internal/delivery"
	"delivery_marketplace/internal/delivery/channels"
	"delivery_marketplace/internal/global"
	"delivery_marketplace/internal/logger"
	"delivery_marketplace/internal/worker"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

func initLogger() {
	if err := logger.Init(global.MongoDB_ServerConfig.LogConfig()); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// startDelivery runs the Telegram delivery processor. Without a bot token the queue just accumulates.
func startDelivery(ctx context.Context, wg *sync.WaitGroup, svc services) {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()
	if !cfg.TelegramEnabled() {
		log.Warn("[DELIVERY] TELEGRAM_BOT_TOKEN not set, delivery processor disabled")
		return
	}

	bot, err := channels.NewTelegram(cfg.TelegramBotToken, cfg.TelegramAPIEndpoint, 10*time.Second)
	if err != nil {
		log.WithError(err).Error("[DELIVERY] Failed to create Telegram sender, continuing without delivery worker")
		return
	}

	processor := delivery.NewProcessor(svc.queue, svc.history, bot, delivery.Options{
		PollInterval: cfg.DeliveryPollInterval,
		BatchSize:    cfg.DeliveryBatchSize,
		Concurrency:  cfg.DeliveryConcurrency,
		MaxRetries:   cfg.DeliveryMaxRetries,
		RatePerSec:   cfg.TelegramRatePerSec,
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithField("bot", bot.Username()).Info("[DELIVERY] Starting delivery processor")
		processor.Start(ctx)
		log.Info("[DELIVERY] Processor stopped")
	}()
}

func startMaintenance(ctx context.Context, wg *sync.WaitGroup, svc services) {
	cfg := global.MongoDB_ServerConfig
	m := worker.NewMaintenance(svc.queue, cfg.MaintenanceSchedule, cfg.DeliveryFailedRetention)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.Start(ctx); err != nil {
			logger.GetAppLogger().WithError(err).Error("[WORKER] Maintenance scheduler failed")
		}
	}()
}

func listen(app *fiber.App) error {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()
	listenConfig := fiber.ListenConfig{DisableStartupMessage: true}
	if cfg.EnableTLS {
		for _, f := range []string{cfg.TLSCertFile, cfg.TLSKeyFile} {
			if _, err := os.Stat(f); err != nil {
				return fmt.Errorf("tls file %s: %w", f, err)
			}
		}
		listenConfig.CertFile = cfg.TLSCertFile
		listenConfig.CertKeyFile = cfg.TLSKeyFile
		log.WithFields(logrus.Fields{"address": cfg.Address, "protocol": "HTTPS"}).Info("Starting server")
	} else {
		log.WithFields(logrus.Fields{"address": cfg.Address, "protocol": "HTTP"}).Info("Starting server")
	}
	return app.Listen(cfg.Address, listenConfig)
}

func main() {
	InitGlobal()
	initLogger()
	InitRegistry()

	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flowCache := initCache(ctx, cfg)
	svc, regs := InitServices(cfg, flowCache)
	if cfg.InitMode {
		InitDefaultData(svc.flows, svc.settings)
	}

	var wg sync.WaitGroup
	startDelivery(ctx, &wg, svc)
	startMaintenance(ctx, &wg, svc)

	app := InitFiberApp(regs...)
	serverErr := make(chan error, 1)
	go func() { serverErr <- listen(app) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("Shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("Server stopped")
		}
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Warn("Fiber shutdown")
	}
	cancel()
	wg.Wait()

	if err := flowCache.Close(); err != nil {
		log.WithError(err).Warn("Cache close")
	}
	if err := database.CloseInstance(global.MongoDB_Session); err != nil {
		log.WithError(err).Warn("MongoDB disconnect")
	}
	log.Info("Shutdown complete")
	logger.Close()
}

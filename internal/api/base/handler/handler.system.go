package basehdl

import (
	"context"
	"time"

	"delivery_marketplace/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// SystemHandler serves /system routes.
type SystemHandler struct {
	db        Pinger
	startedAt time.Time
}

// NewSystemHandler creates a SystemHandler. db may be nil before Mongo is connected.
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db, startedAt: time.Now()}
}

// HandleHealth reports API, database and host status. A failed ping answers 503.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c, 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"services":  services,
		"host":      hostStats(),
	}

	if h.db == nil {
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
	} else if err := h.db.Ping(ctx, nil); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		healthData["database_error"] = err.Error()
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{
			"success": false,
			"code":    common.StatusServiceUnavailable,
			"message": "Service is degraded",
			"data":    healthData,
			"status":  "error",
		})
	} else {
		services["database"] = "ok"
	}

	return HandleResponse(c, healthData, nil)
}

func hostStats() fiber.Map {
	stats := fiber.Map{}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats["memoryUsedPercent"] = vm.UsedPercent
		stats["memoryAvailable"] = vm.Available
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		stats["cpuPercent"] = pct[0]
	}
	return stats
}

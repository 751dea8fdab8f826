package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// Locals keys set by the auth middleware and read by the audit log.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalShopID = "shopID"
)

// AuditAction is one audit record.
type AuditAction struct {
	Action       string                 `json:"action"`
	UserID       string                 `json:"user_id"`
	Role         string                 `json:"role"`
	ResourceID   string                 `json:"resource_id"`
	ResourceType string                 `json:"resource_type"`
	IP           string                 `json:"ip"`
	UserAgent    string                 `json:"user_agent"`
	Details      map[string]interface{} `json:"details"`
	Timestamp    time.Time              `json:"timestamp"`
}

// LogAction writes an audit record for the request in c.
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}

	audit := AuditAction{
		Action:    action,
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
		Details:   details,
		Timestamp: time.Now(),
	}
	if uid, ok := c.Locals(LocalUserID).(string); ok {
		audit.UserID = uid
	}
	if role, ok := c.Locals(LocalRole).(string); ok {
		audit.Role = role
	}
	if shopID, ok := c.Locals(LocalShopID).(string); ok && shopID != "" {
		audit.Details["shop_id"] = shopID
	}
	if requestID := c.Get("X-Request-ID"); requestID != "" {
		audit.Details["request_id"] = requestID
	}
	if rt, ok := details["resource_type"].(string); ok {
		audit.ResourceType = rt
	}
	if rid, ok := details["resource_id"].(string); ok {
		audit.ResourceID = rid
	}

	GetAuditLogger().WithFields(logrus.Fields{
		"action":        audit.Action,
		"user_id":       audit.UserID,
		"role":          audit.Role,
		"resource_id":   audit.ResourceID,
		"resource_type": audit.ResourceType,
		"ip":            audit.IP,
		"user_agent":    audit.UserAgent,
		"details":       audit.Details,
	}).Info("Audit log")
}

// LogCRUD audits a create/update/delete on a resource.
func LogCRUD(operation string, resourceType string, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID

	LogAction("crud_"+operation, c, details)
}

// LogAuth audits an authentication event.
func LogAuth(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["auth_action"] = action

	LogAction("auth_"+action, c, details)
}

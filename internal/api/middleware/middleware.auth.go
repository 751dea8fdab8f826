package middleware

import (
	"errors"
	"strings"
	"time"

	basehdl "delivery_marketplace/internal/api/base/handler"
	basemodels "delivery_marketplace/internal/api/base/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Claims is the JWT payload issued to dashboard and mini-app users.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	ShopID string `json:"shopId,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the given identity.
func IssueToken(secret, userID, role, shopID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		ShopID: shopID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies raw and returns its claims.
func ParseToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if claims.UserID == "" || !basemodels.IsValidRole(claims.Role) {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// AuthMiddleware requires a valid Bearer token and stores userId, role and shopId in Locals.
func AuthMiddleware(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("Missing Authorization header")
			return basehdl.HandleError(c, common.ErrTokenMissing)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return basehdl.HandleError(c, common.ErrTokenInvalid)
		}

		claims, err := ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			logger.LogAuth("token_rejected", c, map[string]interface{}{"error": err.Error()})
			return basehdl.HandleError(c, err)
		}

		c.Locals(logger.LocalUserID, claims.UserID)
		c.Locals(logger.LocalRole, claims.Role)
		c.Locals(logger.LocalShopID, claims.ShopID)
		return c.Next()
	}
}

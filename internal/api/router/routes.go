// Package router wires the shared route helpers; each domain registers its own routes through a RegisterFunc.
package router

import (
	"strings"

	basehdl "delivery_marketplace/internal/api/base/handler"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// CRUDHandler is implemented by basehdl.BaseHandler and the domain handlers that embed it.
type CRUDHandler interface {
	InsertOne(c fiber.Ctx) error
	FindOneById(c fiber.Ctx) error
	FindWithPagination(c fiber.Ctx) error
	UpdateById(c fiber.Ctx) error
	DeleteById(c fiber.Ctx) error
}

// CRUDConfig selects the CRUD routes of a resource and the roles allowed on each side.
// Empty role lists mean any authenticated caller.
type CRUDConfig struct {
	Create bool
	Read   bool
	Update bool
	Delete bool

	ReadRoles  []string
	WriteRoles []string
}

// Router carries what domain routers need while registering.
type Router struct {
	app *fiber.App
}

// RoutePrefix holds the API prefixes.
type RoutePrefix struct {
	Base string
	V1   string
}

// NewRoutePrefix returns /api and /api/v1.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// NewRouter creates a Router.
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware registers handler on prefix+path behind guards.
// Guards wrap the single route handler, so they never leak onto sibling routes under the same prefix.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, guards []middleware.Guard, handler fiber.Handler) {
	router.Add([]string{strings.ToUpper(method)}, prefix+path, middleware.WithGuards(handler, guards...))
}

func rolesGuard(roles []string) []middleware.Guard {
	if len(roles) == 0 {
		return nil
	}
	return []middleware.Guard{middleware.RequireRoles(roles...)}
}

// RegisterCRUDRoutes registers GET /, GET /:id, POST /, PUT /:id and DELETE /:id under prefix.
// Register custom routes such as /suggestions before calling this so /:id does not shadow them.
func (r *Router) RegisterCRUDRoutes(router fiber.Router, prefix string, h CRUDHandler, config CRUDConfig) {
	read := rolesGuard(config.ReadRoles)
	write := rolesGuard(config.WriteRoles)

	if config.Read {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "", read, h.FindWithPagination)
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodGet, "/:id", read, h.FindOneById)
	}
	if config.Create {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodPost, "", write, h.InsertOne)
	}
	if config.Update {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodPut, "/:id", write, h.UpdateById)
	}
	if config.Delete {
		RegisterRouteWithMiddleware(router, prefix, fiber.MethodDelete, "/:id", write, h.DeleteById)
	}
}

// RegisterFunc registers one domain's routes on the authenticated v1 group.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes registers the public system routes, then mounts every domain behind auth under /api/v1.
func SetupRoutes(app *fiber.App, jwtSecret string, system *basehdl.SystemHandler, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()

	app.Get(prefix.V1+"/system/health", system.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	v1 := app.Group(prefix.V1, middleware.AuthMiddleware(jwtSecret))
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}

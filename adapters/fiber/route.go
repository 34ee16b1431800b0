package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/lborres/khuluma"
	"github.com/lborres/khuluma/core"
	"github.com/lborres/khuluma/services"
)

const healthPath = "/health"

type Adapter struct {
	app    *fiber.App
	k      *khuluma.Khuluma
	logger *zap.Logger
}

var _ khuluma.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app, logger: zap.NewNop()}
}

// RegisterRoutes mounts every endpoint in k.Endpoints under k.BasePath,
// guarded according to its auth mode, plus the health check at the root.
func (a *Adapter) RegisterRoutes(k *khuluma.Khuluma) error {
	a.k = k
	if k.Logger != nil {
		a.logger = k.Logger.Named("http")
	}

	handlers := map[string]fiber.Handler{
		services.OpListOpportunities: a.listOpportunities,
		services.OpGetOpportunity:    a.getOpportunity,
		services.OpApply:             a.apply,
		services.OpToggleBookmark:    a.toggleBookmark,
		services.OpListCategories:    a.listCategories,
		services.OpLogin:             a.login,
		services.OpGetSession:        a.session,
		services.OpLogout:            a.logout,
	}

	api := a.app.Group(k.BasePath)
	for _, ep := range k.Endpoints {
		handler, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for operation %q (%s %s)", ep.Metadata.OperationID, ep.Method, ep.Path)
		}
		if err := a.mount(api, ep, handler); err != nil {
			return err
		}
	}

	a.app.Get(healthPath, a.health)
	return nil
}

func (a *Adapter) mount(router fiber.Router, ep *core.Endpoint, handler fiber.Handler) error {
	var guard fiber.Handler
	switch ep.Auth {
	case core.AuthNone:
	case core.AuthOptional:
		guard = a.optionalAuth
	case core.AuthRequired:
		guard = a.requireAuth
	default:
		return fmt.Errorf("unknown auth mode %v for %s %s", ep.Auth, ep.Method, ep.Path)
	}

	switch ep.Method {
	case fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %s for %s", ep.Method, ep.Path)
	}

	methods := []string{ep.Method}
	if guard == nil {
		router.Add(methods, ep.Path, handler)
	} else {
		router.Add(methods, ep.Path, guard, handler)
	}
	return nil
}

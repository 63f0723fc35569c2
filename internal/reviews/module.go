// Package reviews provides the review intake bounded context.
// Stored reviews are announced on the event bus so the professionals module
// can refresh ratings and trade scores.
package reviews

import (
	"tradesmarket/internal/events"
	apphttp "tradesmarket/internal/http"
	"tradesmarket/internal/reviews/handler"
	"tradesmarket/internal/reviews/ports"
	"tradesmarket/internal/reviews/repository"
	"tradesmarket/internal/reviews/service"
	"tradesmarket/platform/logger"
	"tradesmarket/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reviews bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the reviews module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	projects ports.ProjectOwnerReader,
	professionals ports.ProfessionalOwnerReader,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(repository.New(pool), projects, professionals, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "reviews"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts review routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/reviews", m.handler.List)
	ctx.Public.GET("/reviews/:id", m.handler.GetByID)
	ctx.Public.PUT("/reviews/:id/helpful", m.handler.MarkHelpful)

	ctx.Protected.POST("/reviews", m.handler.Create)
	ctx.Protected.PUT("/reviews/:id/response", m.handler.Respond)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

// Package professionals provides the professional profile bounded context.
// It owns the stored trade score and keeps it current as profiles,
// certifications and reviews change.
package professionals

import (
	"context"

	"tradesmarket/internal/events"
	apphttp "tradesmarket/internal/http"
	"tradesmarket/internal/professionals/handler"
	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/professionals/service"
	"tradesmarket/internal/scoring/tradescore"
	"tradesmarket/platform/logger"
	"tradesmarket/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the professionals bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the professionals module with all its dependencies.
func NewModule(pool *pgxpool.Pool, engine *tradescore.Engine, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, engine, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "professionals"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts professional routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/professionals", m.handler.List)
	ctx.Public.GET("/professionals/:id", m.handler.GetByID)
	ctx.Public.GET("/professionals/:id/stats", m.handler.Stats)
	ctx.Public.GET("/professionals/:id/certifications", m.handler.ListCertifications)

	ctx.Protected.GET("/me/professional", m.handler.GetMine)
	ctx.Protected.POST("/professionals", m.handler.Create)
	ctx.Protected.PATCH("/professionals/:id", m.handler.Update)
	ctx.Protected.POST("/professionals/:id/certifications", m.handler.AddCertification)
	ctx.Protected.DELETE("/professionals/:id/certifications/:certId", m.handler.RemoveCertification)

	adminGroup := ctx.Admin.Group("/professionals")
	adminGroup.PUT("/:id/verification", m.handler.Verify)
	adminGroup.POST("/rescore", m.handler.Rescore)
}

// RegisterHandlers subscribes to review events so ratings and scores stay current.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ReviewSubmitted{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ReviewSubmitted:
		return m.service.ApplyReview(ctx, e)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

// Package projects provides the project bounded context: posting projects,
// attaching their complexity analysis, and matching them with professionals.
package projects

import (
	"tradesmarket/internal/events"
	apphttp "tradesmarket/internal/http"
	"tradesmarket/internal/projects/handler"
	"tradesmarket/internal/projects/ports"
	"tradesmarket/internal/projects/repository"
	"tradesmarket/internal/projects/service"
	"tradesmarket/internal/scoring/complexity"
	"tradesmarket/platform/logger"
	"tradesmarket/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the projects bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the projects module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	analyzer *complexity.Analyzer,
	professionals ports.ProfessionalMatchReader,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, analyzer, professionals, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "projects"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts project routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/projects", m.handler.List)
	ctx.Public.GET("/projects/:id", m.handler.GetByID)
	ctx.Public.GET("/projects/:id/matches", m.handler.Matches)

	ctx.Protected.POST("/projects", m.handler.Create)
	ctx.Protected.PATCH("/projects/:id", m.handler.Update)
	ctx.Protected.POST("/projects/:id/analysis", m.handler.Reanalyze)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

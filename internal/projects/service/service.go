package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tradesmarket/internal/events"
	"tradesmarket/internal/projects/ports"
	"tradesmarket/internal/projects/repository"
	"tradesmarket/internal/projects/transport"
	"tradesmarket/internal/scoring"
	"tradesmarket/internal/scoring/complexity"
	"tradesmarket/internal/scoring/match"
	"tradesmarket/platform/apperr"
	"tradesmarket/platform/logger"
	"tradesmarket/platform/metrics"
	"tradesmarket/platform/sanitize"
)

const (
	defaultPageSize   = 20
	maxPageSize       = 100
	defaultMatchLimit = 20
	matchWorkers      = 8
)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Service provides business logic for projects, their analyses and their
// match scores.
type Service struct {
	repo          repository.Repository
	analyzer      *complexity.Analyzer
	professionals ports.ProfessionalMatchReader
	eventBus      events.Bus
	log           *logger.Logger
	now           func() time.Time
}

// New creates a new projects service.
func New(
	repo repository.Repository,
	analyzer *complexity.Analyzer,
	professionals ports.ProfessionalMatchReader,
	eventBus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:          repo,
		analyzer:      analyzer,
		professionals: professionals,
		eventBus:      eventBus,
		log:           log,
		now:           time.Now,
	}
}

// Create analyzes and stores a new project.
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, req transport.CreateProjectRequest) (transport.ProjectResponse, error) {
	tradeTypes := req.TradeTypes
	if tradeTypes == nil {
		tradeTypes = []string{}
	}

	title := sanitize.Text(req.Title)
	description := sanitize.Text(req.Description)

	analysis, err := s.analyzer.Analyze(complexity.Input{
		Title:       title,
		Description: description,
		Budget:      complexity.Budget{Min: req.Budget.Min, Max: req.Budget.Max},
		TradeTypes:  tradeTypes,
		Location:    complexity.Location{City: req.Location.City, State: req.Location.State},
	})
	if err != nil {
		return transport.ProjectResponse{}, scoring.AsValidation(err)
	}

	p, err := s.repo.Create(ctx, repository.CreateParams{
		ClientID:    clientID,
		Title:       title,
		Description: description,
		City:        req.Location.City,
		State:       req.Location.State,
		BudgetMin:   req.Budget.Min,
		BudgetMax:   req.Budget.Max,
		TradeTypes:  tradeTypes,
		Analysis:    analysis,
		AnalyzedAt:  s.now(),
	})
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.publishAnalyzed(ctx, p.ID, analysis)
	return toResponse(p), nil
}

// GetByID retrieves a project with its analysis.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ProjectResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	return toResponse(p), nil
}

// List retrieves a page of projects. With a professional ID every item is
// scored against that professional; sort=match orders the page by score.
func (s *Service) List(ctx context.Context, req transport.ListProjectsRequest) (transport.ProjectListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)
	params := repository.ListParams{
		Status:    req.Status,
		TradeType: req.TradeType,
		City:      req.City,
		ClientID:  parseOptionalID(req.ClientID),
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
	}
	professionalID := parseOptionalID(req.ProfessionalID)

	var (
		items []repository.Project
		total int
		pro   match.Professional
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, total, err = s.repo.List(gctx, params)
		return err
	})
	if professionalID != nil {
		g.Go(func() error {
			var err error
			pro, err = s.professionals.MatchProfile(gctx, *professionalID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return transport.ProjectListResponse{}, err
	}

	resp := transport.ProjectListResponse{
		Items:    make([]transport.ProjectResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	if professionalID == nil {
		for _, p := range items {
			resp.Items = append(resp.Items, toResponse(p))
		}
		return resp, nil
	}

	ranked := match.RankProjects(pro, toMatchProjects(items))
	if req.Sort != transport.SortMatch {
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].Index < ranked[j].Index })
	}
	for _, r := range ranked {
		metrics.ObserveMatch(r.Err)
		item := toResponse(items[r.Index])
		if r.Err != nil {
			item.MatchError = r.Err.Error()
		} else {
			result := r.Result
			item.MatchScore = &result
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

// Update changes a project. Edits to analyzed fields re-run the analysis.
func (s *Service) Update(ctx context.Context, id uuid.UUID, actor Actor, req transport.UpdateProjectRequest) (transport.ProjectResponse, error) {
	current, err := s.authorize(ctx, id, actor)
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	params := repository.UpdateParams{
		ID:          id,
		Title:       sanitize.TextPtr(req.Title),
		Description: sanitize.TextPtr(req.Description),
		TradeTypes:  req.TradeTypes,
		Status:      req.Status,
	}
	if req.Budget != nil {
		params.BudgetMin = &req.Budget.Min
		params.BudgetMax = &req.Budget.Max
	}
	if req.Location != nil {
		params.City = &req.Location.City
		params.State = &req.Location.State
	}

	next := current
	if req.Budget != nil {
		next.BudgetMin, next.BudgetMax = req.Budget.Min, req.Budget.Max
	}
	if err := scoring.CheckOrdered("budget", next.BudgetMin, next.BudgetMax); err != nil {
		return transport.ProjectResponse{}, scoring.AsValidation(err)
	}

	p, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	if req.Title != nil || req.Description != nil || req.Budget != nil || req.TradeTypes != nil || req.Location != nil {
		return s.reanalyze(ctx, p)
	}
	return toResponse(p), nil
}

// Reanalyze recomputes and replaces a project's analysis.
func (s *Service) Reanalyze(ctx context.Context, id uuid.UUID, actor Actor) (transport.ProjectResponse, error) {
	p, err := s.authorize(ctx, id, actor)
	if err != nil {
		return transport.ProjectResponse{}, err
	}
	return s.reanalyze(ctx, p)
}

// Matches ranks candidate professionals for a project, best first.
func (s *Service) Matches(ctx context.Context, id uuid.UUID, limit int) (transport.ProjectMatchesResponse, error) {
	if limit < 1 {
		limit = defaultMatchLimit
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProjectMatchesResponse{}, err
	}
	candidates, err := s.professionals.MatchCandidates(ctx, p.TradeTypes, limit)
	if err != nil {
		return transport.ProjectMatchesResponse{}, err
	}

	ranked, err := match.RankProfessionalsConcurrently(ctx, toMatchProject(p), candidates, matchWorkers)
	if err != nil {
		return transport.ProjectMatchesResponse{}, err
	}

	resp := transport.ProjectMatchesResponse{
		ProjectID: p.ID,
		Items:     make([]transport.ProfessionalMatch, 0, len(ranked)),
	}
	for _, r := range ranked {
		metrics.ObserveMatch(r.Err)
		item := transport.ProfessionalMatch{ProfessionalID: r.ID}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else {
			result := r.Result
			item.MatchScore = &result
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

// ProjectClientID returns the client that posted a project.
func (s *Service) ProjectClientID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ClientID, nil
}

func (s *Service) reanalyze(ctx context.Context, p repository.Project) (transport.ProjectResponse, error) {
	analysis, err := s.analyzer.Analyze(toAnalysisInput(p))
	if err != nil {
		return transport.ProjectResponse{}, scoring.AsValidation(err)
	}

	updated, err := s.repo.AttachAnalysis(ctx, p.ID, analysis, s.now())
	if err != nil {
		return transport.ProjectResponse{}, err
	}

	s.publishAnalyzed(ctx, updated.ID, analysis)
	return toResponse(updated), nil
}

func (s *Service) publishAnalyzed(ctx context.Context, id uuid.UUID, analysis complexity.Analysis) {
	s.log.WithContext(ctx).Info("project analyzed",
		"projectId", id,
		"complexity", analysis.ComplexityScore,
		"risk", analysis.RiskLevel,
		"timeline", analysis.EstimatedTimeline,
	)
	s.eventBus.Publish(ctx, events.ProjectAnalyzed{
		BaseEvent:       events.NewBaseEvent(),
		ProjectID:       id,
		ComplexityScore: analysis.ComplexityScore,
		RiskLevel:       string(analysis.RiskLevel),
	})
}

func (s *Service) authorize(ctx context.Context, id uuid.UUID, actor Actor) (repository.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Project{}, err
	}
	if !actor.IsAdmin && p.ClientID != actor.UserID {
		return repository.Project{}, apperr.Forbidden("only the project's client can change it")
	}
	return p, nil
}

func toAnalysisInput(p repository.Project) complexity.Input {
	return complexity.Input{
		Title:       p.Title,
		Description: p.Description,
		Budget:      complexity.Budget{Min: p.BudgetMin, Max: p.BudgetMax},
		TradeTypes:  p.TradeTypes,
		Location:    complexity.Location{City: p.City, State: p.State},
	}
}

func toMatchProject(p repository.Project) match.Project {
	mp := match.Project{
		ID:         p.ID.String(),
		TradeTypes: p.TradeTypes,
		Budget:     match.Range{Min: p.BudgetMin, Max: p.BudgetMax},
		City:       p.City,
	}
	if p.Analysis != nil {
		complexityScore := p.Analysis.ComplexityScore
		mp.Complexity = &complexityScore
	}
	return mp
}

func toMatchProjects(items []repository.Project) []match.Project {
	out := make([]match.Project, len(items))
	for i, p := range items {
		out[i] = toMatchProject(p)
	}
	return out
}

func toResponse(p repository.Project) transport.ProjectResponse {
	return transport.ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Title:       p.Title,
		Description: p.Description,
		Budget:      transport.Budget{Min: p.BudgetMin, Max: p.BudgetMax},
		TradeTypes:  p.TradeTypes,
		Location:    transport.Location{City: p.City, State: p.State},
		Status:      p.Status,
		AIAnalysis:  p.Analysis,
		AnalyzedAt:  p.AnalyzedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func parseOptionalID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

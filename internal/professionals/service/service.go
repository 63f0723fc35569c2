package service

import (
	"context"

	"github.com/google/uuid"

	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/professionals/transport"
	"tradesmarket/internal/scoring"
	"tradesmarket/internal/scoring/match"
	"tradesmarket/internal/scoring/tradescore"
	"tradesmarket/platform/apperr"
	"tradesmarket/platform/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RescoreScheduler enqueues background rescoring. A nil professional ID
// means every profile.
type RescoreScheduler interface {
	EnqueueRescore(ctx context.Context, professionalID *uuid.UUID) (string, error)
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Service provides business logic for professional profiles and their
// AI trade scores.
type Service struct {
	repo      repository.Repository
	engine    *tradescore.Engine
	scheduler RescoreScheduler
	log       *logger.Logger
}

// New creates a new professionals service.
func New(repo repository.Repository, engine *tradescore.Engine, log *logger.Logger) *Service {
	return &Service{repo: repo, engine: engine, log: log}
}

// SetRescoreScheduler injects the background job client. Without one,
// bulk rescoring runs inline.
func (s *Service) SetRescoreScheduler(scheduler RescoreScheduler) {
	s.scheduler = scheduler
}

// GetByID retrieves a professional profile.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ProfessionalResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProfessionalResponse{}, err
	}
	return toResponse(p), nil
}

// GetMine retrieves the caller's own profile.
func (s *Service) GetMine(ctx context.Context, userID uuid.UUID) (transport.ProfessionalResponse, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return transport.ProfessionalResponse{}, err
	}
	return toResponse(p), nil
}

// List retrieves professionals sorted by total score, then rating.
func (s *Service) List(ctx context.Context, req transport.ListProfessionalsRequest) (transport.ProfessionalListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Trade:        req.Trade,
		Specialty:    req.Specialty,
		Availability: req.Availability,
		City:         req.City,
		MinScore:     req.MinScore,
		MinRating:    req.MinRating,
		Offset:       (page - 1) * pageSize,
		Limit:        pageSize,
	})
	if err != nil {
		return transport.ProfessionalListResponse{}, err
	}

	resp := transport.ProfessionalListResponse{
		Items:    make([]transport.ProfessionalResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, p := range items {
		resp.Items = append(resp.Items, toResponse(p))
	}
	return resp, nil
}

// Create registers the caller's profile with neutral sub-scores.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateProfessionalRequest) (transport.ProfessionalResponse, error) {
	profile := tradescore.NewProfile()
	profile.YearsExperience = req.YearsExperience
	total, err := s.engine.ComputeTotal(profile)
	if err != nil {
		return transport.ProfessionalResponse{}, scoring.AsValidation(err)
	}

	availability := req.Availability
	if availability == "" {
		availability = string(match.Available)
	}

	p, err := s.repo.Create(ctx, repository.CreateParams{
		UserID:          userID,
		DisplayName:     req.DisplayName,
		Trade:           req.Trade,
		Specialties:     req.Specialties,
		YearsExperience: req.YearsExperience,
		HourlyRateMin:   req.HourlyRate.Min,
		HourlyRateMax:   req.HourlyRate.Max,
		Availability:    availability,
		City:            req.Location.City,
		State:           req.Location.State,
		Score:           scoreFromProfile(profile, total),
	})
	if err != nil {
		return transport.ProfessionalResponse{}, err
	}

	s.log.WithContext(ctx).Info("professional created", "id", p.ID, "userId", userID, "trade", p.Trade, "total", p.Score.Total)
	return toResponse(p), nil
}

// Update applies a profile change and rescores.
func (s *Service) Update(ctx context.Context, id uuid.UUID, actor Actor, req transport.UpdateProfessionalRequest) (transport.ProfessionalResponse, error) {
	current, err := s.authorize(ctx, id, actor)
	if err != nil {
		return transport.ProfessionalResponse{}, err
	}

	params := repository.UpdateParams{
		ID:              id,
		DisplayName:     req.DisplayName,
		Trade:           req.Trade,
		Specialties:     req.Specialties,
		YearsExperience: req.YearsExperience,
		Availability:    req.Availability,
	}
	if req.HourlyRate != nil {
		if err := scoring.CheckOrdered("hourlyRate", req.HourlyRate.Min, req.HourlyRate.Max); err != nil {
			return transport.ProfessionalResponse{}, scoring.AsValidation(err)
		}
		params.HourlyRateMin = &req.HourlyRate.Min
		params.HourlyRateMax = &req.HourlyRate.Max
	}
	if req.Location != nil {
		params.City = &req.Location.City
		params.State = &req.Location.State
	}

	if _, err := s.repo.Update(ctx, params); err != nil {
		return transport.ProfessionalResponse{}, err
	}

	p, err := s.Rescore(ctx, id, ReasonProfileUpdated)
	if err != nil {
		return transport.ProfessionalResponse{}, err
	}
	s.log.WithContext(ctx).Info("professional updated", "id", id, "previousTotal", current.Score.Total, "total", p.Score.Total)
	return toResponse(p), nil
}

// Verify stores admin-assessed skill verification and safety sub-scores and
// rescores.
func (s *Service) Verify(ctx context.Context, id uuid.UUID, req transport.VerifyProfessionalRequest) (transport.ProfessionalResponse, error) {
	err := s.repo.SetVerification(ctx, repository.VerificationParams{
		ID:                id,
		SkillVerification: req.SkillVerification,
		Safety:            req.Safety,
		Verified:          req.Verified,
	})
	if err != nil {
		return transport.ProfessionalResponse{}, err
	}

	p, err := s.Rescore(ctx, id, ReasonVerification)
	if err != nil {
		return transport.ProfessionalResponse{}, err
	}
	return toResponse(p), nil
}

// ListCertifications returns a professional's certifications.
func (s *Service) ListCertifications(ctx context.Context, id uuid.UUID) ([]transport.CertificationResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	certs, err := s.repo.ListCertifications(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCertificationResponses(certs), nil
}

// AddCertification attaches a certification and rescores, since the count
// feeds the growth component.
func (s *Service) AddCertification(ctx context.Context, id uuid.UUID, actor Actor, req transport.AddCertificationRequest) (transport.CertificationResponse, error) {
	if _, err := s.authorize(ctx, id, actor); err != nil {
		return transport.CertificationResponse{}, err
	}
	if req.ObtainedAt != nil && req.ExpiresAt != nil && req.ExpiresAt.Before(*req.ObtainedAt) {
		return transport.CertificationResponse{}, apperr.Validation("expiresAt must not be before obtainedAt")
	}

	cert, err := s.repo.AddCertification(ctx, repository.CertificationParams{
		ProfessionalID: id,
		Name:           req.Name,
		Issuer:         req.Issuer,
		ObtainedAt:     req.ObtainedAt,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		return transport.CertificationResponse{}, err
	}

	if _, err := s.Rescore(ctx, id, ReasonCertificationAdded); err != nil {
		return transport.CertificationResponse{}, err
	}
	return toCertificationResponse(cert), nil
}

// RemoveCertification deletes a certification and rescores.
func (s *Service) RemoveCertification(ctx context.Context, id, certificationID uuid.UUID, actor Actor) error {
	if _, err := s.authorize(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repo.DeleteCertification(ctx, id, certificationID); err != nil {
		return err
	}
	_, err := s.Rescore(ctx, id, ReasonCertificationRemoved)
	return err
}

// Stats returns reputation figures and the explained trade score.
func (s *Service) Stats(ctx context.Context, id uuid.UUID) (transport.ProfessionalStatsResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProfessionalStatsResponse{}, err
	}
	certs, err := s.repo.ListCertifications(ctx, id)
	if err != nil {
		return transport.ProfessionalStatsResponse{}, err
	}
	ratings, err := s.repo.RatingBreakdown(ctx, id)
	if err != nil {
		return transport.ProfessionalStatsResponse{}, err
	}

	breakdown, err := s.engine.Explain(toProfile(p))
	if err != nil {
		return transport.ProfessionalStatsResponse{}, scoring.AsValidation(err)
	}

	return transport.ProfessionalStatsResponse{
		ProfessionalID:     p.ID,
		Rating:             p.Rating,
		ReviewCount:        p.ReviewCount,
		ProjectsCompleted:  p.ProjectsCompleted,
		CertificationCount: p.CertificationCount,
		RatingBreakdown:    ratings,
		Breakdown:          breakdown,
		Certifications:     toCertificationResponses(certs),
	}, nil
}

// RequestRescore enqueues a background rescore, or runs it inline when no
// scheduler is configured. It returns the task ID when one was enqueued.
func (s *Service) RequestRescore(ctx context.Context, professionalID *uuid.UUID) (string, error) {
	if s.scheduler != nil {
		return s.scheduler.EnqueueRescore(ctx, professionalID)
	}

	if professionalID != nil {
		_, err := s.Rescore(ctx, *professionalID, ReasonManual)
		return "", err
	}
	_, err := s.RescoreAll(ctx, ReasonManual, 0)
	return "", err
}

func (s *Service) authorize(ctx context.Context, id uuid.UUID, actor Actor) (repository.Professional, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Professional{}, err
	}
	if !actor.IsAdmin && p.UserID != actor.UserID {
		return repository.Professional{}, apperr.Forbidden("only the profile owner can change this professional")
	}
	return p, nil
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

func toProfile(p repository.Professional) tradescore.Profile {
	return tradescore.Profile{
		SkillVerification:   p.Score.SkillVerification,
		Reliability:         p.Score.Reliability,
		Quality:             p.Score.Quality,
		Safety:              p.Score.Safety,
		CertificationsCount: p.CertificationCount,
		YearsExperience:     p.YearsExperience,
	}
}

func scoreFromProfile(p tradescore.Profile, total float64) repository.Score {
	return repository.Score{
		SkillVerification: p.SkillVerification,
		Reliability:       p.Reliability,
		Quality:           p.Quality,
		Safety:            p.Safety,
		Total:             total,
	}
}

func toResponse(p repository.Professional) transport.ProfessionalResponse {
	return transport.ProfessionalResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Trade:           p.Trade,
		Specialties:     p.Specialties,
		YearsExperience: p.YearsExperience,
		HourlyRate:      transport.HourlyRate{Min: p.HourlyRateMin, Max: p.HourlyRateMax},
		Availability:    p.Availability,
		Location:        transport.Location{City: p.City, State: p.State},
		AIScore: transport.ScoreResponse{
			SkillVerification: p.Score.SkillVerification,
			Reliability:       p.Score.Reliability,
			Quality:           p.Score.Quality,
			Safety:            p.Score.Safety,
			Total:             p.Score.Total,
		},
		Rating:             p.Rating,
		ReviewCount:        p.ReviewCount,
		ProjectsCompleted:  p.ProjectsCompleted,
		Verified:           p.Verified,
		CertificationCount: p.CertificationCount,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toCertificationResponse(c repository.Certification) transport.CertificationResponse {
	return transport.CertificationResponse{
		ID:         c.ID,
		Name:       c.Name,
		Issuer:     c.Issuer,
		ObtainedAt: c.ObtainedAt,
		ExpiresAt:  c.ExpiresAt,
		CreatedAt:  c.CreatedAt,
	}
}

func toCertificationResponses(certs []repository.Certification) []transport.CertificationResponse {
	out := make([]transport.CertificationResponse, 0, len(certs))
	for _, c := range certs {
		out = append(out, toCertificationResponse(c))
	}
	return out
}

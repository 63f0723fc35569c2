package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradesmarket/platform/apperr"
)

const (
	professionalNotFoundMessage  = "professional not found"
	certificationNotFoundMessage = "certification not found"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const professionalColumns = `
	p.id, p.user_id, p.display_name, p.trade, p.specialties, p.years_experience,
	p.hourly_rate_min, p.hourly_rate_max, p.availability, p.city, p.state,
	p.skill_verification, p.reliability, p.quality, p.safety, p.score_total,
	p.rating, p.review_count, p.projects_completed, p.verified,
	(SELECT COUNT(*) FROM professional_certifications c WHERE c.professional_id = p.id),
	p.created_at, p.updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new professionals repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfessional(row rowScanner) (Professional, error) {
	var p Professional
	err := row.Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.Trade, &p.Specialties, &p.YearsExperience,
		&p.HourlyRateMin, &p.HourlyRateMax, &p.Availability, &p.City, &p.State,
		&p.Score.SkillVerification, &p.Score.Reliability, &p.Score.Quality, &p.Score.Safety, &p.Score.Total,
		&p.Rating, &p.ReviewCount, &p.ProjectsCompleted, &p.Verified,
		&p.CertificationCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if p.Specialties == nil {
		p.Specialties = []string{}
	}
	return p, err
}

func scanProfessionals(rows pgx.Rows) ([]Professional, error) {
	items := make([]Professional, 0)
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, fmt.Errorf("scan professional: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professionals: %w", err)
	}
	return items, nil
}

// GetByID retrieves a professional by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals p WHERE p.id = $1`

	p, err := scanProfessional(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, apperr.NotFound(professionalNotFoundMessage)
		}
		return Professional{}, fmt.Errorf("get professional by id: %w", err)
	}
	return p, nil
}

// GetByUserID retrieves the profile owned by a user.
func (r *Repo) GetByUserID(ctx context.Context, userID uuid.UUID) (Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals p WHERE p.user_id = $1`

	p, err := scanProfessional(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, apperr.NotFound(professionalNotFoundMessage)
		}
		return Professional{}, fmt.Errorf("get professional by user id: %w", err)
	}
	return p, nil
}

// List retrieves professionals matching the filters, best score first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Professional, int, error) {
	filter := `
		WHERE ($1::text = '' OR p.trade = $1)
			AND ($2::text = '' OR p.trade = $2 OR $2 = ANY(p.specialties))
			AND ($3::text = '' OR p.availability = $3)
			AND ($4::text = '' OR lower(p.city) = lower($4))
			AND ($5::double precision IS NULL OR p.score_total >= $5)
			AND ($6::double precision IS NULL OR p.rating >= $6)`
	args := []interface{}{params.Trade, params.Specialty, params.Availability, params.City, params.MinScore, params.MinRating}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM professionals p`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count professionals: %w", err)
	}

	query := `SELECT ` + professionalColumns + ` FROM professionals p` + filter + `
		ORDER BY p.score_total DESC, p.rating DESC, p.id ASC
		LIMIT $7 OFFSET $8`
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	items, err := scanProfessionals(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByTrades retrieves professionals whose trade or specialties overlap trades.
func (r *Repo) ListByTrades(ctx context.Context, trades []string, limit int) ([]Professional, error) {
	query := `SELECT ` + professionalColumns + ` FROM professionals p
		WHERE p.trade = ANY($1::text[]) OR p.specialties && $1::text[]
		ORDER BY p.score_total DESC, p.rating DESC, p.id ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, trades, limit)
	if err != nil {
		return nil, fmt.Errorf("list professionals by trades: %w", err)
	}
	defer rows.Close()

	return scanProfessionals(rows)
}

// ListIDs pages through all professional IDs in key order, starting after the
// given ID. Pass uuid.Nil for the first page.
func (r *Repo) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM professionals
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("list professional ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan professional id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professional ids: %w", err)
	}
	return ids, nil
}

// ListCertifications retrieves a professional's certifications, oldest first.
func (r *Repo) ListCertifications(ctx context.Context, professionalID uuid.UUID) ([]Certification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, professional_id, name, issuer, obtained_at, expires_at, created_at
		FROM professional_certifications
		WHERE professional_id = $1
		ORDER BY created_at ASC`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	defer rows.Close()

	items := make([]Certification, 0)
	for rows.Next() {
		var c Certification
		if err := rows.Scan(&c.ID, &c.ProfessionalID, &c.Name, &c.Issuer, &c.ObtainedAt, &c.ExpiresAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan certification: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certifications: %w", err)
	}
	return items, nil
}

// RatingBreakdown counts a professional's reviews per star rating. Every
// rating from 1 to 5 is present in the result.
func (r *Repo) RatingBreakdown(ctx context.Context, professionalID uuid.UUID) (map[int]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE professional_id = $1
		GROUP BY rating`, professionalID)
	if err != nil {
		return nil, fmt.Errorf("rating breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for rows.Next() {
		var rating int16
		var count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan rating breakdown: %w", err)
		}
		breakdown[int(rating)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating breakdown: %w", err)
	}
	return breakdown, nil
}

// Create inserts a new profile.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Professional, error) {
	id := uuid.New()
	specialties := params.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO professionals (
			id, user_id, display_name, trade, specialties, years_experience,
			hourly_rate_min, hourly_rate_max, availability, city, state,
			skill_verification, reliability, quality, safety, score_total
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		id, params.UserID, params.DisplayName, params.Trade, specialties, params.YearsExperience,
		params.HourlyRateMin, params.HourlyRateMax, params.Availability, params.City, params.State,
		params.Score.SkillVerification, params.Score.Reliability, params.Score.Quality, params.Score.Safety, params.Score.Total,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return Professional{}, apperr.Conflict("a professional profile already exists for this user")
		}
		return Professional{}, fmt.Errorf("create professional: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update applies a partial profile update.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Professional, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE professionals SET
			display_name = COALESCE($2, display_name),
			trade = COALESCE($3, trade),
			specialties = COALESCE($4, specialties),
			years_experience = COALESCE($5, years_experience),
			hourly_rate_min = COALESCE($6, hourly_rate_min),
			hourly_rate_max = COALESCE($7, hourly_rate_max),
			availability = COALESCE($8, availability),
			city = COALESCE($9, city),
			state = COALESCE($10, state),
			updated_at = now()
		WHERE id = $1`,
		params.ID, params.DisplayName, params.Trade, params.Specialties, params.YearsExperience,
		params.HourlyRateMin, params.HourlyRateMax, params.Availability, params.City, params.State,
	)
	if err != nil {
		return Professional{}, fmt.Errorf("update professional: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Professional{}, apperr.NotFound(professionalNotFoundMessage)
	}

	return r.GetByID(ctx, params.ID)
}

// SetVerification stores admin-assessed sub-scores. The total is not touched;
// callers rescore afterwards.
func (r *Repo) SetVerification(ctx context.Context, params VerificationParams) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE professionals SET
			skill_verification = COALESCE($2, skill_verification),
			safety = COALESCE($3, safety),
			verified = COALESCE($4, verified),
			updated_at = now()
		WHERE id = $1`,
		params.ID, params.SkillVerification, params.Safety, params.Verified,
	)
	if err != nil {
		return fmt.Errorf("set professional verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(professionalNotFoundMessage)
	}
	return nil
}

// UpdateScore locks the professional row, hands it to fn together with the
// current review aggregate and writes the resulting patch in the same
// transaction.
func (r *Repo) UpdateScore(ctx context.Context, id uuid.UUID, fn ScoreUpdater) (Professional, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Professional{}, fmt.Errorf("begin score update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanProfessional(tx.QueryRow(ctx,
		`SELECT `+professionalColumns+` FROM professionals p WHERE p.id = $1 FOR UPDATE OF p`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Professional{}, apperr.NotFound(professionalNotFoundMessage)
		}
		return Professional{}, fmt.Errorf("lock professional: %w", err)
	}

	var stats ReviewStats
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::double precision, COUNT(*)
		FROM reviews
		WHERE professional_id = $1`, id).Scan(&stats.Average, &stats.Count); err != nil {
		return Professional{}, fmt.Errorf("aggregate reviews: %w", err)
	}

	patch, err := fn(current, stats)
	if err != nil {
		return Professional{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE professionals SET
			skill_verification = $2,
			reliability = $3,
			quality = $4,
			safety = $5,
			score_total = $6,
			rating = COALESCE($7, rating),
			review_count = COALESCE($8, review_count),
			updated_at = now()
		WHERE id = $1`,
		id, patch.Score.SkillVerification, patch.Score.Reliability, patch.Score.Quality, patch.Score.Safety,
		patch.Score.Total, patch.Rating, patch.ReviewCount,
	)
	if err != nil {
		return Professional{}, fmt.Errorf("write score: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Professional{}, fmt.Errorf("commit score update: %w", err)
	}

	return ApplyPatch(current, patch), nil
}

// AddCertification attaches a certification to a professional.
func (r *Repo) AddCertification(ctx context.Context, params CertificationParams) (Certification, error) {
	c := Certification{
		ID:             uuid.New(),
		ProfessionalID: params.ProfessionalID,
		Name:           params.Name,
		Issuer:         params.Issuer,
		ObtainedAt:     params.ObtainedAt,
		ExpiresAt:      params.ExpiresAt,
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO professional_certifications (id, professional_id, name, issuer, obtained_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		c.ID, c.ProfessionalID, c.Name, c.Issuer, c.ObtainedAt, c.ExpiresAt,
	).Scan(&c.CreatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return Certification{}, apperr.NotFound(professionalNotFoundMessage)
		}
		return Certification{}, fmt.Errorf("add certification: %w", err)
	}
	return c, nil
}

// DeleteCertification removes a certification owned by the professional.
func (r *Repo) DeleteCertification(ctx context.Context, professionalID, certificationID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM professional_certifications WHERE id = $1 AND professional_id = $2`,
		certificationID, professionalID,
	)
	if err != nil {
		return fmt.Errorf("delete certification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(certificationNotFoundMessage)
	}
	return nil
}

// ApplyPatch returns p with the patch applied, mirroring the UPDATE in
// UpdateScore.
func ApplyPatch(p Professional, patch ScorePatch) Professional {
	p.Score = patch.Score
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	if patch.ReviewCount != nil {
		p.ReviewCount = *patch.ReviewCount
	}
	return p
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradesmarket/platform/apperr"
)

const (
	reviewNotFoundMessage = "review not found"

	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const reviewColumns = `
	id, project_id, professional_id, client_id, rating,
	quality, communication, timeliness, professionalism,
	title, comment, would_recommend, response_text, responded_at,
	helpful_count, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new reviews repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanReview(row pgx.Row) (Review, error) {
	var r Review
	var rating int16
	var quality, communication, timeliness, professionalism *int16
	err := row.Scan(
		&r.ID, &r.ProjectID, &r.ProfessionalID, &r.ClientID, &rating,
		&quality, &communication, &timeliness, &professionalism,
		&r.Title, &r.Comment, &r.WouldRecommend, &r.ResponseText, &r.RespondedAt,
		&r.HelpfulCount, &r.CreatedAt,
	)
	if err != nil {
		return Review{}, err
	}
	r.Rating = int(rating)
	r.Detailed = DetailedRatings{
		Quality:         widen(quality),
		Communication:   widen(communication),
		Timeliness:      widen(timeliness),
		Professionalism: widen(professionalism),
	}
	return r, nil
}

func widen(v *int16) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// Create stores a review. A second review of the same project by the same
// client is a conflict.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Review, error) {
	query := `
		INSERT INTO reviews (
			id, project_id, professional_id, client_id, rating,
			quality, communication, timeliness, professionalism,
			title, comment, would_recommend
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + reviewColumns

	review, err := scanReview(r.pool.QueryRow(ctx, query,
		uuid.New(), params.ProjectID, params.ProfessionalID, params.ClientID, params.Rating,
		params.Detailed.Quality, params.Detailed.Communication, params.Detailed.Timeliness, params.Detailed.Professionalism,
		params.Title, params.Comment, params.WouldRecommend,
	))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return Review{}, apperr.Conflict("review already submitted for this project")
		}
		if isPgError(err, pgForeignKeyViolation) {
			return Review{}, apperr.NotFound("project or professional not found")
		}
		return Review{}, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

// GetByID retrieves a review by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Review, error) {
	review, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound(reviewNotFoundMessage)
		}
		return Review{}, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// List retrieves reviews matching the filters, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Review, int, error) {
	filter := `
		WHERE ($1::uuid IS NULL OR professional_id = $1)
			AND ($2::uuid IS NULL OR project_id = $2)
			AND ($3::uuid IS NULL OR client_id = $3)`
	args := []interface{}{params.ProfessionalID, params.ProjectID, params.ClientID}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews` + filter + `
		ORDER BY created_at DESC, id ASC
		LIMIT $4 OFFSET $5`
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := make([]Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reviews: %w", err)
	}
	return items, total, nil
}

// SetResponse stores the professional's public reply, replacing any earlier one.
func (r *Repo) SetResponse(ctx context.Context, id uuid.UUID, text string, respondedAt time.Time) (Review, error) {
	query := `
		UPDATE reviews SET response_text = $2, responded_at = $3
		WHERE id = $1
		RETURNING ` + reviewColumns

	review, err := scanReview(r.pool.QueryRow(ctx, query, id, text, respondedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound(reviewNotFoundMessage)
		}
		return Review{}, fmt.Errorf("set review response: %w", err)
	}
	return review, nil
}

// IncrementHelpful bumps the helpful counter atomically.
func (r *Repo) IncrementHelpful(ctx context.Context, id uuid.UUID) (Review, error) {
	query := `
		UPDATE reviews SET helpful_count = helpful_count + 1
		WHERE id = $1
		RETURNING ` + reviewColumns

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, apperr.NotFound(reviewNotFoundMessage)
		}
		return Review{}, fmt.Errorf("increment review helpful: %w", err)
	}
	return review, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

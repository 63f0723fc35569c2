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

	"tradesmarket/internal/scoring/complexity"
	"tradesmarket/platform/apperr"
)

const (
	projectNotFoundMessage = "project not found"

	pgCheckViolation = "23514"
)

const projectColumns = `
	id, client_id, title, description, city, state, budget_min, budget_max,
	trade_types, status, analysis, analyzed_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID, &p.ClientID, &p.Title, &p.Description, &p.City, &p.State, &p.BudgetMin, &p.BudgetMax,
		&p.TradeTypes, &p.Status, &p.Analysis, &p.AnalyzedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if p.TradeTypes == nil {
		p.TradeTypes = []string{}
	}
	return p, err
}

// Create stores a project together with its first analysis.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Project, error) {
	query := `
		INSERT INTO projects (
			id, client_id, title, description, city, state, budget_min, budget_max,
			trade_types, status, analysis, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + projectColumns

	p, err := scanProject(r.pool.QueryRow(ctx, query,
		uuid.New(), params.ClientID, params.Title, params.Description, params.City, params.State,
		params.BudgetMin, params.BudgetMax, params.TradeTypes, StatusNew, params.Analysis, params.AnalyzedAt,
	))
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// GetByID retrieves a project by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("get project by id: %w", err)
	}
	return p, nil
}

// List retrieves projects matching the filters, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Project, int, error) {
	filter := `
		WHERE ($1::text = '' OR status = $1)
			AND ($2::text = '' OR $2 = ANY(trade_types))
			AND ($3::text = '' OR lower(city) = lower($3))
			AND ($4::uuid IS NULL OR client_id = $4)`
	args := []interface{}{params.Status, params.TradeType, params.City, params.ClientID}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + filter + `
		ORDER BY created_at DESC, id ASC
		LIMIT $5 OFFSET $6`
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate projects: %w", err)
	}
	return items, total, nil
}

// Update applies a partial update. Nil fields are left unchanged.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Project, error) {
	query := `
		UPDATE projects SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			city = COALESCE($4, city),
			state = COALESCE($5, state),
			budget_min = COALESCE($6, budget_min),
			budget_max = COALESCE($7, budget_max),
			trade_types = COALESCE($8, trade_types),
			status = COALESCE($9, status),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + projectColumns

	p, err := scanProject(r.pool.QueryRow(ctx, query,
		params.ID, params.Title, params.Description, params.City, params.State,
		params.BudgetMin, params.BudgetMax, params.TradeTypes, params.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		if isPgError(err, pgCheckViolation) {
			return Project{}, apperr.Validation("budget max must not be below budget min")
		}
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// AttachAnalysis replaces the stored analysis.
func (r *Repo) AttachAnalysis(ctx context.Context, id uuid.UUID, analysis complexity.Analysis, analyzedAt time.Time) (Project, error) {
	query := `
		UPDATE projects SET analysis = $2, analyzed_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + projectColumns

	p, err := scanProject(r.pool.QueryRow(ctx, query, id, analysis, analyzedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("attach project analysis: %w", err)
	}
	return p, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

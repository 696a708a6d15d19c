package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"softwise/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, title, slug, description, image_url, tags, category, link, featured, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
	opts   options
}

// NewPostgres returns a Repository backed by the projects table.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger, opts ...Option) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger, opts: buildOptions(opts)}
}

func (r *postgresRepo) Create(ctx context.Context, in domain.CreateProjectInput) (string, error) {
	const q = `
INSERT INTO projects (` + projectColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
`
	id := r.opts.newID()
	now := r.opts.now().UTC().Truncate(time.Millisecond)
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.pool.Exec(ctx, q, id, in.Title, in.Slug, in.Description, in.ImageURL, tags, in.Category, in.Link, in.Featured, now)
	if err != nil {
		r.logger.Printf("project repo: create slug=%s error=%v", in.Slug, err)
		return "", storeErr("insert project", err)
	}
	r.logger.Printf("project repo: created id=%s slug=%s", id, in.Slug)
	return id, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id string) (*domain.ProjectView, error) {
	return r.findOne(ctx, "id", id)
}

func (r *postgresRepo) FindBySlug(ctx context.Context, slug string) (*domain.ProjectView, error) {
	return r.findOne(ctx, "slug", slug)
}

func (r *postgresRepo) findOne(ctx context.Context, column, value string) (*domain.ProjectView, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE ` + column + ` = $1 LIMIT 1`
	v, err := scanProject(r.pool.QueryRow(ctx, q, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("project repo: get %s=%s not found", column, value)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("project repo: get %s=%s error=%v", column, value, err)
		return nil, storeErr("select project", err)
	}
	return v, nil
}

func (r *postgresRepo) GetAll(ctx context.Context, f domain.ListFilter) (*domain.ProjectList, error) {
	where, args := listConditions(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM projects`+where, args...).Scan(&total); err != nil {
		r.logger.Printf("project repo: count error=%v", err)
		return nil, storeErr("count projects", err)
	}

	page, limit := window(f)
	args = append(args, limit, (page-1)*limit)
	q := fmt.Sprintf(`SELECT %s FROM projects%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		projectColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("project repo: list error=%v", err)
		return nil, storeErr("list projects", err)
	}
	defer rows.Close()

	views := []domain.ProjectView{}
	for rows.Next() {
		v, err := scanProject(rows)
		if err != nil {
			return nil, storeErr("scan project", err)
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("project repo: list rows error=%v", err)
		return nil, storeErr("list projects", err)
	}
	r.logger.Printf("project repo: list total=%d returned=%d", total, len(views))
	return &domain.ProjectList{Data: views, Total: total}, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in domain.UpdateProjectInput) (*domain.ProjectView, error) {
	const q = `
UPDATE projects SET
    title = COALESCE($2, title),
    slug = COALESCE($3, slug),
    description = COALESCE($4, description),
    image_url = COALESCE($5, image_url),
    tags = COALESCE($6, tags),
    category = COALESCE($7, category),
    link = COALESCE($8, link),
    featured = COALESCE($9, featured),
    updated_at = $10
WHERE id = $1
RETURNING ` + projectColumns

	now := r.opts.now().UTC().Truncate(time.Millisecond)
	var tags []string
	if in.Tags != nil {
		tags = in.Tags
	}
	v, err := scanProject(r.pool.QueryRow(ctx, q, id, in.Title, in.Slug, in.Description, in.ImageURL, tags, in.Category, in.Link, in.Featured, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("project repo: update id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("project repo: update id=%s error=%v", id, err)
		return nil, storeErr("update project", err)
	}
	r.logger.Printf("project repo: updated id=%s", id)
	return v, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("project repo: delete id=%s error=%v", id, err)
		return storeErr("delete project", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Printf("project repo: deleted id=%s", id)
	}
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// listConditions mirrors applyFilter in SQL.
func listConditions(f domain.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	if f.Featured != "" {
		args = append(args, f.Featured == "true")
		conds = append(conds, fmt.Sprintf("featured = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(f.Search))+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(lower(title) LIKE $%[1]d OR lower(description) LIKE $%[1]d OR EXISTS (SELECT 1 FROM unnest(tags) AS t(tag) WHERE lower(t.tag) LIKE $%[1]d))", n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanProject(row pgx.Row) (*domain.ProjectView, error) {
	var v domain.ProjectView
	if err := row.Scan(&v.ID, &v.Title, &v.Slug, &v.Description, &v.ImageURL, &v.Tags, &v.Category, &v.Link, &v.Featured, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return &v, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}

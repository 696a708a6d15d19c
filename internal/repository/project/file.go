package project

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"softwise/internal/domain"
	"softwise/internal/store/jsonfile"
)

type fileRepo struct {
	store  *jsonfile.Store[domain.ProjectRecord]
	logger *log.Logger
	opts   options

	// mu serializes read-modify-write cycles on the file.
	mu sync.Mutex
}

// NewFile returns a Repository backed by a JSON file with whole-file replace
// semantics.
func NewFile(store *jsonfile.Store[domain.ProjectRecord], logger *log.Logger, opts ...Option) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &fileRepo{store: store, logger: logger, opts: buildOptions(opts)}
}

func (r *fileRepo) Create(ctx context.Context, in domain.CreateProjectInput) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return "", err
	}

	now := domain.FormatTimestamp(r.opts.now())
	rec := domain.ProjectRecord{
		ID:          r.opts.newID(),
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Tags:        append([]string(nil), in.Tags...),
		Category:    in.Category,
		Link:        cloneString(in.Link),
		Featured:    in.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	records = append(records, rec)
	if err := r.save(ctx, records); err != nil {
		return "", err
	}
	r.logger.Printf("project repo: created id=%s slug=%s", rec.ID, rec.Slug)
	return rec.ID, nil
}

func (r *fileRepo) FindByID(ctx context.Context, id string) (*domain.ProjectView, error) {
	return r.findOne(ctx, "id", id, func(p domain.ProjectRecord) bool { return p.ID == id })
}

func (r *fileRepo) FindBySlug(ctx context.Context, slug string) (*domain.ProjectView, error) {
	return r.findOne(ctx, "slug", slug, func(p domain.ProjectRecord) bool { return p.Slug == slug })
}

func (r *fileRepo) findOne(ctx context.Context, key, value string, match func(domain.ProjectRecord) bool) (*domain.ProjectView, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if match(rec) {
			v := domain.ViewFromRecord(rec)
			return &v, nil
		}
	}
	r.logger.Printf("project repo: get %s=%s not found", key, value)
	return nil, domain.ErrNotFound
}

func (r *fileRepo) GetAll(ctx context.Context, f domain.ListFilter) (*domain.ProjectList, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := applyFilter(records, f)
	sortNewestFirst(filtered)

	pageRecs := paginate(filtered, f)
	views := make([]domain.ProjectView, 0, len(pageRecs))
	for _, rec := range pageRecs {
		views = append(views, domain.ViewFromRecord(rec))
	}
	r.logger.Printf("project repo: list total=%d returned=%d", len(filtered), len(views))
	return &domain.ProjectList{Data: views, Total: len(filtered)}, nil
}

func (r *fileRepo) Update(ctx context.Context, id string, in domain.UpdateProjectInput) (*domain.ProjectView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.logger.Printf("project repo: update id=%s not found", id)
		return nil, domain.ErrNotFound
	}

	updated := overlay(records[idx], in)
	updated.UpdatedAt = domain.FormatTimestamp(r.opts.now())
	records[idx] = updated
	if err := r.save(ctx, records); err != nil {
		return nil, err
	}
	r.logger.Printf("project repo: updated id=%s", id)
	v := domain.ViewFromRecord(updated)
	return &v, nil
}

func (r *fileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	if err := r.save(ctx, kept); err != nil {
		return err
	}
	r.logger.Printf("project repo: deleted id=%s", id)
	return nil
}

func (r *fileRepo) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return nil
}

func (r *fileRepo) load(ctx context.Context) ([]domain.ProjectRecord, error) {
	records, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Printf("project repo: load error=%v", err)
		return nil, fmt.Errorf("%w: load projects: %w", domain.ErrStore, err)
	}
	return records, nil
}

func (r *fileRepo) save(ctx context.Context, records []domain.ProjectRecord) error {
	if err := r.store.Save(ctx, records); err != nil {
		r.logger.Printf("project repo: save error=%v", err)
		return fmt.Errorf("%w: save projects: %w", domain.ErrStore, err)
	}
	return nil
}

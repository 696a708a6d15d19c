package project

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"softwise/internal/cache"
	"softwise/internal/domain"
)

const cacheEntity = "projects"

type cachedRepo struct {
	next   Repository
	cache  *cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewCached puts a read-through Redis cache in front of next. Writes go
// straight to next and then drop every cached projects entry.
func NewCached(next Repository, c *cache.Cache, ttl time.Duration, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &cachedRepo{next: next, cache: c, ttl: ttl, logger: logger}
}

func (r *cachedRepo) Create(ctx context.Context, in domain.CreateProjectInput) (string, error) {
	id, err := r.next.Create(ctx, in)
	if err != nil {
		return "", err
	}
	r.invalidate(ctx, id)
	return id, nil
}

func (r *cachedRepo) FindByID(ctx context.Context, id string) (*domain.ProjectView, error) {
	return cache.GetOrSet(ctx, r.cache, cacheEntity+":id:"+id, r.ttl, func(ctx context.Context) (*domain.ProjectView, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *cachedRepo) FindBySlug(ctx context.Context, slug string) (*domain.ProjectView, error) {
	return cache.GetOrSet(ctx, r.cache, cacheEntity+":slug:"+slug, r.ttl, func(ctx context.Context) (*domain.ProjectView, error) {
		return r.next.FindBySlug(ctx, slug)
	})
}

func (r *cachedRepo) GetAll(ctx context.Context, f domain.ListFilter) (*domain.ProjectList, error) {
	return cache.GetOrSet(ctx, r.cache, listKey(f), r.ttl, func(ctx context.Context) (*domain.ProjectList, error) {
		return r.next.GetAll(ctx, f)
	})
}

func (r *cachedRepo) Update(ctx context.Context, id string, in domain.UpdateProjectInput) (*domain.ProjectView, error) {
	v, err := r.next.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return v, nil
}

func (r *cachedRepo) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *cachedRepo) Ping(ctx context.Context) error {
	if p, ok := r.next.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return r.cache.Ping(ctx)
}

func (r *cachedRepo) invalidate(ctx context.Context, id string) {
	if err := r.cache.Invalidate(ctx, cacheEntity, id); err != nil {
		r.logger.Printf("project cache: invalidate id=%s error=%v", id, err)
	}
}

// listKey encodes every filter so distinct queries never share an entry.
func listKey(f domain.ListFilter) string {
	page, limit := window(f)
	q := url.Values{}
	q.Set("search", f.Search)
	q.Set("category", f.Category)
	q.Set("featured", f.Featured)
	return fmt.Sprintf("%s:list:%d:%d:%s", cacheEntity, page, limit, q.Encode())
}

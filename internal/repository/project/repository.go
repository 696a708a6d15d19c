package project

import (
	"context"
	"time"

	"softwise/internal/domain"

	"github.com/google/uuid"
)

// Repository is the only component allowed to touch persisted projects.
// Lookups that match nothing return domain.ErrNotFound; store failures are
// wrapped with domain.ErrStore.
type Repository interface {
	Create(ctx context.Context, in domain.CreateProjectInput) (string, error)
	FindByID(ctx context.Context, id string) (*domain.ProjectView, error)
	FindBySlug(ctx context.Context, slug string) (*domain.ProjectView, error)
	GetAll(ctx context.Context, f domain.ListFilter) (*domain.ProjectList, error)
	Update(ctx context.Context, id string, in domain.UpdateProjectInput) (*domain.ProjectView, error)
	Delete(ctx context.Context, id string) error
}

// Pinger is implemented by repositories that can report store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option tunes repository construction.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

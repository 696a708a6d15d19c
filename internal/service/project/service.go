package project

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"softwise/internal/domain"
	projectrepo "softwise/internal/repository/project"
	"softwise/internal/result"
	"softwise/internal/schema"
)

const (
	component    = "ProjectService"
	resource     = "project"
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Service applies the catalog rules on top of a Repository. Expected
// failures come back inside the Result; the error return is reserved for
// faults the caller cannot act on.
type Service struct {
	repo      projectrepo.Repository
	validator *schema.Validator
	logger    *log.Logger

	// createMu makes the slug check and the insert one step.
	createMu sync.Mutex
}

func New(repo projectrepo.Repository, validator *schema.Validator, logger *log.Logger) *Service {
	if validator == nil {
		validator = schema.New()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, validator: validator, logger: logger}
}

func (s *Service) Create(ctx context.Context, in domain.CreateProjectInput) (result.Result[string], error) {
	if vs := s.validator.ValidateCreate(in); len(vs) > 0 {
		return result.Fail[string](domain.NewValidationError(summarize(vs), vs, component)), nil
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	_, err := s.repo.FindBySlug(ctx, in.Slug)
	switch {
	case err == nil:
		s.logger.Printf("project service: create slug=%s conflict", in.Slug)
		return result.Fail[string](domain.NewConflictError("Já existe um projeto com este slug", "slug", in.Slug, component)), nil
	case !errors.Is(err, domain.ErrNotFound):
		return result.Result[string]{}, err
	}

	if in.Tags == nil {
		in.Tags = []string{}
	}
	id, err := s.repo.Create(ctx, in)
	if err != nil {
		return result.Result[string]{}, err
	}
	return result.Ok(id), nil
}

func (s *Service) FindByID(ctx context.Context, id string) (result.Result[*domain.ProjectView], error) {
	return s.find(ctx, "id", id, s.repo.FindByID)
}

func (s *Service) FindBySlug(ctx context.Context, slug string) (result.Result[*domain.ProjectView], error) {
	return s.find(ctx, "slug", slug, s.repo.FindBySlug)
}

func (s *Service) find(ctx context.Context, key, value string, lookup func(context.Context, string) (*domain.ProjectView, error)) (result.Result[*domain.ProjectView], error) {
	v, err := lookup(ctx, value)
	if errors.Is(err, domain.ErrNotFound) {
		return result.Fail[*domain.ProjectView](domain.NewNotFoundError("Projeto não encontrado", resource, key, value, component)), nil
	}
	if err != nil {
		return result.Result[*domain.ProjectView]{}, err
	}
	return result.Ok(v), nil
}

// GetAll parses and bounds the pagination window before asking the
// repository for one page.
func (s *Service) GetAll(ctx context.Context, q domain.ProjectQuery) (result.Result[domain.ProjectPage], error) {
	page, limit, verr := pageWindow(q.Page, q.Limit)
	if verr != nil {
		return result.Fail[domain.ProjectPage](verr), nil
	}

	list, err := s.repo.GetAll(ctx, domain.ListFilter{
		Page:     page,
		Limit:    limit,
		Search:   q.Search,
		Category: q.Category,
		Featured: q.Featured,
	})
	if err != nil {
		return result.Result[domain.ProjectPage]{}, err
	}

	data := list.Data
	if data == nil {
		data = []domain.ProjectView{}
	}
	return result.Ok(domain.ProjectPage{
		Data: data,
		Pagination: domain.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      list.Total,
			TotalPages: (list.Total + limit - 1) / limit,
		},
	}), nil
}

func (s *Service) Update(ctx context.Context, id string, in domain.UpdateProjectInput) (result.Result[*domain.ProjectView], error) {
	if vs := s.validator.ValidateUpdate(in); len(vs) > 0 {
		return result.Fail[*domain.ProjectView](domain.NewValidationError(summarize(vs), vs, component)), nil
	}

	v, err := s.repo.Update(ctx, id, in)
	if errors.Is(err, domain.ErrNotFound) {
		return result.Fail[*domain.ProjectView](domain.NewNotFoundError("Projeto não encontrado para atualização", resource, "id", id, component)), nil
	}
	if err != nil {
		return result.Result[*domain.ProjectView]{}, err
	}
	return result.Ok(v), nil
}

func (s *Service) Delete(ctx context.Context, id string) (result.Result[struct{}], error) {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return result.Fail[struct{}](domain.NewNotFoundError("Projeto não existe", resource, "id", id, component)), nil
	}
	if err != nil {
		return result.Result[struct{}]{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return result.Result[struct{}]{}, err
	}
	return result.Ok(struct{}{}), nil
}

func pageWindow(rawPage, rawLimit string) (int, int, *domain.AppError) {
	page, pageOK := parseOr(rawPage, defaultPage)
	if !pageOK || page < 1 {
		return 0, 0, pageError(rawPage, "min")
	}
	limit, ok := parseOr(rawLimit, defaultLimit)
	if !ok || limit < 1 || limit > maxLimit {
		const msg = "O limite deve estar entre 1 e 100."
		return 0, 0, domain.NewValidationError(msg, []domain.FieldViolation{{Field: "limit", Message: msg, Rule: "range", Value: rawLimit}}, component)
	}
	// The row offset (page-1)*limit must fit in an int.
	if page > math.MaxInt/limit {
		return 0, 0, pageError(rawPage, "max")
	}
	return page, limit, nil
}

func pageError(raw, rule string) *domain.AppError {
	const msg = "A página deve ser maior que 0."
	return domain.NewValidationError(msg, []domain.FieldViolation{{Field: "page", Message: msg, Rule: rule, Value: raw}}, component)
}

func parseOr(raw string, def int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// summarize joins violations as "field: message, field: message".
func summarize(vs []domain.FieldViolation) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		if v.Field == "" {
			parts = append(parts, v.Message)
			continue
		}
		parts = append(parts, v.Field+": "+v.Message)
	}
	return strings.Join(parts, ", ")
}

package project

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"softwise/internal/domain"
	projectrepo "softwise/internal/repository/project"
	"softwise/internal/store/jsonfile"
)

type stubRepo struct {
	bySlug    *domain.ProjectView
	bySlugErr error
	byID      *domain.ProjectView
	byIDErr   error
	createID  string
	createErr error
	list      *domain.ProjectList
	listErr   error
	updated   *domain.ProjectView
	updateErr error
	deleteErr error

	created     *domain.CreateProjectInput
	lastFilter  domain.ListFilter
	deletedID   string
	updateCalls int
}

func (s *stubRepo) Create(_ context.Context, in domain.CreateProjectInput) (string, error) {
	s.created = &in
	return s.createID, s.createErr
}

func (s *stubRepo) FindByID(_ context.Context, _ string) (*domain.ProjectView, error) {
	if s.byIDErr != nil {
		return nil, s.byIDErr
	}
	if s.byID == nil {
		return nil, domain.ErrNotFound
	}
	return s.byID, nil
}

func (s *stubRepo) FindBySlug(_ context.Context, _ string) (*domain.ProjectView, error) {
	if s.bySlugErr != nil {
		return nil, s.bySlugErr
	}
	if s.bySlug == nil {
		return nil, domain.ErrNotFound
	}
	return s.bySlug, nil
}

func (s *stubRepo) GetAll(_ context.Context, f domain.ListFilter) (*domain.ProjectList, error) {
	s.lastFilter = f
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.list == nil {
		return &domain.ProjectList{}, nil
	}
	return s.list, nil
}

func (s *stubRepo) Update(_ context.Context, _ string, _ domain.UpdateProjectInput) (*domain.ProjectView, error) {
	s.updateCalls++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updated, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.deleteErr
}

func validInput() domain.CreateProjectInput {
	return domain.CreateProjectInput{
		Title:       "Banking App",
		Slug:        "banking-app",
		Description: "Mobile banking for Luanda",
		ImageURL:    "https://cdn.example.com/bank.png",
		Tags:        []string{"flutter"},
		Category:    "Mobile",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns id", func(t *testing.T) {
		repo := &stubRepo{createID: "p-1"}
		res, err := New(repo, nil, nil).Create(ctx, validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsOk() || res.Value() != "p-1" {
			t.Fatalf("unexpected result %+v", res.Failure())
		}
		if repo.created == nil || repo.created.Slug != "banking-app" {
			t.Fatalf("repository not called with input")
		}
	})

	t.Run("validation failure lists every field", func(t *testing.T) {
		repo := &stubRepo{}
		in := validInput()
		in.Title = "ab"
		in.Slug = "Bad Slug"
		res, err := New(repo, nil, nil).Create(ctx, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f := res.Failure()
		if f == nil || f.Type != domain.ErrorValidation || f.StatusCode != 422 {
			t.Fatalf("expected validation failure, got %+v", f)
		}
		if len(f.Errors) != 2 {
			t.Fatalf("expected 2 violations, got %+v", f.Errors)
		}
		if repo.created != nil {
			t.Fatalf("repository must not be called on invalid input")
		}
	})

	t.Run("slug conflict", func(t *testing.T) {
		repo := &stubRepo{bySlug: &domain.ProjectView{ID: "existing", Slug: "banking-app"}}
		res, err := New(repo, nil, nil).Create(ctx, validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f := res.Failure()
		if f == nil || f.Type != domain.ErrorConflict || f.ConflictingField != "slug" || f.ExistingValue != "banking-app" {
			t.Fatalf("expected conflict, got %+v", f)
		}
		if repo.created != nil {
			t.Fatalf("repository create must not run on conflict")
		}
	})

	t.Run("store fault is an error", func(t *testing.T) {
		repo := &stubRepo{bySlugErr: domain.ErrStore}
		_, err := New(repo, nil, nil).Create(ctx, validInput())
		if !errors.Is(err, domain.ErrStore) {
			t.Fatalf("expected store error, got %v", err)
		}
	})
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	svc := New(&stubRepo{}, nil, nil)

	res, err := svc.FindByID(ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := res.Failure()
	if f == nil || f.Type != domain.ErrorNotFound || f.Resource != "project" || f.LookupKey != "id" || f.ResourceID != "nope" {
		t.Fatalf("unexpected failure %+v", f)
	}

	res, err = svc.FindBySlug(ctx, "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f := res.Failure(); f == nil || f.LookupKey != "slug" || f.ResourceID != "ghost" {
		t.Fatalf("unexpected failure %+v", f)
	}

	found := New(&stubRepo{byID: &domain.ProjectView{ID: "p-1"}}, nil, nil)
	res, err = found.FindByID(ctx, "p-1")
	if err != nil || !res.IsOk() || res.Value().ID != "p-1" {
		t.Fatalf("expected project, got %+v %v", res.Failure(), err)
	}
}

func TestGetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and total pages", func(t *testing.T) {
		repo := &stubRepo{list: &domain.ProjectList{Data: []domain.ProjectView{{ID: "a"}}, Total: 25}}
		res, err := New(repo, nil, nil).GetAll(ctx, domain.ProjectQuery{Search: "web", Featured: "true"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		page := res.Value()
		want := domain.Pagination{Page: 1, Limit: 10, Total: 25, TotalPages: 3}
		if page.Pagination != want {
			t.Fatalf("pagination = %+v, want %+v", page.Pagination, want)
		}
		if repo.lastFilter.Search != "web" || repo.lastFilter.Featured != "true" || repo.lastFilter.Page != 1 {
			t.Fatalf("filter not forwarded: %+v", repo.lastFilter)
		}
	})

	t.Run("empty listing", func(t *testing.T) {
		res, err := New(&stubRepo{}, nil, nil).GetAll(ctx, domain.ProjectQuery{Page: "3", Limit: "5"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		page := res.Value()
		if page.Data == nil || page.Pagination.TotalPages != 0 || page.Pagination.Page != 3 {
			t.Fatalf("unexpected page %+v", page)
		}
	})

	cases := []struct {
		name  string
		query domain.ProjectQuery
		field string
	}{
		{"page zero", domain.ProjectQuery{Page: "0"}, "page"},
		{"page not a number", domain.ProjectQuery{Page: "first"}, "page"},
		{"limit too large", domain.ProjectQuery{Limit: "101"}, "limit"},
		{"limit zero", domain.ProjectQuery{Limit: "0"}, "limit"},
		{"page offset overflows", domain.ProjectQuery{Page: "922337203685477582", Limit: "10"}, "page"},
		{"page at max int", domain.ProjectQuery{Page: "9223372036854775807", Limit: "2"}, "page"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepo{}
			res, err := New(repo, nil, nil).GetAll(ctx, tc.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			f := res.Failure()
			if f == nil || f.Type != domain.ErrorValidation || len(f.Errors) != 1 || f.Errors[0].Field != tc.field {
				t.Fatalf("unexpected failure %+v", f)
			}
			if repo.lastFilter.Page != 0 {
				t.Fatalf("repository must not be queried")
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid partial", func(t *testing.T) {
		repo := &stubRepo{}
		bad := "x"
		res, err := New(repo, nil, nil).Update(ctx, "p-1", domain.UpdateProjectInput{Title: &bad})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f := res.Failure(); f == nil || f.Type != domain.ErrorValidation {
			t.Fatalf("expected validation failure, got %+v", f)
		}
		if repo.updateCalls != 0 {
			t.Fatalf("repository must not be called")
		}
	})

	t.Run("missing project", func(t *testing.T) {
		title := "Valid title"
		res, err := New(&stubRepo{updateErr: domain.ErrNotFound}, nil, nil).Update(ctx, "p-9", domain.UpdateProjectInput{Title: &title})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f := res.Failure(); f == nil || f.Type != domain.ErrorNotFound || f.ResourceID != "p-9" {
			t.Fatalf("expected not found, got %+v", f)
		}
	})

	t.Run("updated", func(t *testing.T) {
		title := "Valid title"
		repo := &stubRepo{updated: &domain.ProjectView{ID: "p-1", Title: title}}
		res, err := New(repo, nil, nil).Update(ctx, "p-1", domain.UpdateProjectInput{Title: &title})
		if err != nil || !res.IsOk() || res.Value().Title != title {
			t.Fatalf("unexpected result %+v %v", res.Failure(), err)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	repo := &stubRepo{}
	res, err := New(repo, nil, nil).Delete(ctx, "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f := res.Failure(); f == nil || f.Type != domain.ErrorNotFound {
		t.Fatalf("expected not found, got %+v", f)
	}
	if repo.deletedID != "" {
		t.Fatalf("delete must not run for a missing project")
	}

	repo = &stubRepo{byID: &domain.ProjectView{ID: "p-1"}}
	res, err = New(repo, nil, nil).Delete(ctx, "p-1")
	if err != nil || !res.IsOk() {
		t.Fatalf("unexpected result %+v %v", res.Failure(), err)
	}
	if repo.deletedID != "p-1" {
		t.Fatalf("delete not forwarded")
	}
}

func TestGetAllLargestPage(t *testing.T) {
	repo := &stubRepo{list: &domain.ProjectList{Total: 3}}
	res, err := New(repo, nil, nil).GetAll(context.Background(), domain.ProjectQuery{Page: "92233720368547758", Limit: "100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsOk() {
		t.Fatalf("expected page within offset range to be accepted, got %+v", res.Failure())
	}
	if repo.lastFilter.Page != 92233720368547758 || len(res.Value().Data) != 0 {
		t.Fatalf("unexpected page %+v filter %+v", res.Value(), repo.lastFilter)
	}
}

func TestCreateConcurrentSameSlug(t *testing.T) {
	store := jsonfile.New[domain.ProjectRecord](filepath.Join(t.TempDir(), "projects.json"))
	svc := New(projectrepo.NewFile(store, nil), nil, nil)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Create(ctx, validInput())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				t.Errorf("unexpected error: %v", err)
			case res.IsOk():
				created++
			case res.Failure().Type == domain.ErrorConflict:
				conflicts++
			default:
				t.Errorf("unexpected failure %+v", res.Failure())
			}
		}()
	}
	wg.Wait()

	if created != 1 || conflicts != workers-1 {
		t.Fatalf("created=%d conflicts=%d, want 1 and %d", created, conflicts, workers-1)
	}
	page, err := svc.GetAll(ctx, domain.ProjectQuery{})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total := page.Value().Pagination.Total; total != 1 {
		t.Fatalf("stored %d projects with slug %s, want 1", total, validInput().Slug)
	}
}

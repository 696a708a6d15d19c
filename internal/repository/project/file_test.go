package project

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"softwise/internal/domain"
	"softwise/internal/store/jsonfile"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newFileRepo(t *testing.T, opts ...Option) (Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "projects.json")
	return NewFile(jsonfile.New[domain.ProjectRecord](path), nil, opts...), path
}

func sampleInput(slug string) domain.CreateProjectInput {
	return domain.CreateProjectInput{
		Title:       "Project " + slug,
		Slug:        slug,
		Description: "A portfolio project called " + slug,
		ImageURL:    "https://cdn.example.com/" + slug + ".png",
		Tags:        []string{"go", "web"},
		Category:    "Web",
	}
}

func TestFileRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo, path := newFileRepo(t, WithClock(clock.now))

	id, err := repo.Create(ctx, sampleInput("shop"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	got, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Slug != "shop" || got.ImageURL != "https://cdn.example.com/shop.png" {
		t.Fatalf("unexpected project %+v", got)
	}
	if !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("createdAt %v != updatedAt %v", got.CreatedAt, got.UpdatedAt)
	}
	if got.Link != nil {
		t.Fatalf("expected no link, got %q", *got.Link)
	}

	bySlug, err := repo.FindBySlug(ctx, "shop")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if bySlug.ID != id {
		t.Fatalf("slug lookup returned %s, want %s", bySlug.ID, id)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if !containsAll(string(raw), `"image_url"`, `"created_at"`, `"updated_at"`) {
		t.Fatalf("store is not in persisted form: %s", raw)
	}
}

func TestFileRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByID err = %v, want ErrNotFound", err)
	}
	if _, err := repo.FindBySlug(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindBySlug err = %v, want ErrNotFound", err)
	}
	title := "New title"
	if _, err := repo.Update(ctx, "missing", domain.UpdateProjectInput{Title: &title}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update err = %v, want ErrNotFound", err)
	}
}

func TestFileRepo_Pagination(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo, _ := newFileRepo(t, WithClock(clock.now))

	for i := 0; i < 25; i++ {
		if _, err := repo.Create(ctx, sampleInput(fmt.Sprintf("p-%02d", i))); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	list, err := repo.GetAll(ctx, domain.ListFilter{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if list.Total != 25 {
		t.Fatalf("total = %d, want 25", list.Total)
	}
	if len(list.Data) != 10 {
		t.Fatalf("page size = %d, want 10", len(list.Data))
	}
	if list.Data[0].Slug != "p-14" || list.Data[9].Slug != "p-05" {
		t.Fatalf("unexpected window %s..%s", list.Data[0].Slug, list.Data[9].Slug)
	}

	last, err := repo.GetAll(ctx, domain.ListFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll page 3: %v", err)
	}
	if len(last.Data) != 5 {
		t.Fatalf("last page size = %d, want 5", len(last.Data))
	}

	beyond, err := repo.GetAll(ctx, domain.ListFilter{Page: 9, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll page 9: %v", err)
	}
	if len(beyond.Data) != 0 || beyond.Total != 25 {
		t.Fatalf("unexpected page beyond end: %+v", beyond)
	}

	far, err := repo.GetAll(ctx, domain.ListFilter{Page: math.MaxInt, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll far page: %v", err)
	}
	if len(far.Data) != 0 || far.Total != 25 {
		t.Fatalf("unexpected far page: %+v", far)
	}
}

func TestFileRepo_Filters(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	inputs := []domain.CreateProjectInput{
		{Title: "Banking App", Slug: "banking-app", Description: "Mobile banking for Luanda", ImageURL: "https://x.io/a.png", Tags: []string{"flutter"}, Category: "Mobile", Featured: true},
		{Title: "Shop", Slug: "shop", Description: "Online storefront built with React", ImageURL: "https://x.io/b.png", Tags: []string{"react", "ecommerce"}, Category: "Web", Featured: true},
		{Title: "Intranet", Slug: "intranet", Description: "Internal portal for staff", ImageURL: "https://x.io/c.png", Tags: []string{"React"}, Category: "web"},
	}
	for _, in := range inputs {
		if _, err := repo.Create(ctx, in); err != nil {
			t.Fatalf("Create %s: %v", in.Slug, err)
		}
	}

	cases := []struct {
		name   string
		filter domain.ListFilter
		want   []string
	}{
		{"category is case-insensitive", domain.ListFilter{Category: "WEB"}, []string{"shop", "intranet"}},
		{"featured true", domain.ListFilter{Featured: "true"}, []string{"banking-app", "shop"}},
		{"featured anything else", domain.ListFilter{Featured: "yes"}, []string{"intranet"}},
		{"search matches tags", domain.ListFilter{Search: "react"}, []string{"shop", "intranet"}},
		{"search matches description", domain.ListFilter{Search: "LUANDA"}, []string{"banking-app"}},
		{"filters compose", domain.ListFilter{Category: "web", Featured: "true", Search: "react"}, []string{"shop"}},
		{"no match", domain.ListFilter{Search: "rust"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := repo.GetAll(ctx, tc.filter)
			if err != nil {
				t.Fatalf("GetAll: %v", err)
			}
			if list.Total != len(tc.want) {
				t.Fatalf("total = %d, want %d", list.Total, len(tc.want))
			}
			got := map[string]bool{}
			for _, p := range list.Data {
				got[p.Slug] = true
			}
			for _, s := range tc.want {
				if !got[s] {
					t.Fatalf("missing %s in %+v", s, got)
				}
			}
		})
	}
}

func TestFileRepo_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	repo, _ := newFileRepo(t, WithClock(clock.now))

	id, err := repo.Create(ctx, sampleInput("shop"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before, _ := repo.FindByID(ctx, id)

	title := "Renamed shop"
	featured := true
	got, err := repo.Update(ctx, id, domain.UpdateProjectInput{Title: &title, Featured: &featured})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != title || !got.Featured {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Slug != before.Slug || got.Description != before.Description || len(got.Tags) != 2 {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("createdAt changed")
	}
	if !got.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v <= %v", got.UpdatedAt, before.UpdatedAt)
	}

	reloaded, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Title != title {
		t.Fatalf("update not persisted: %+v", reloaded)
	}
}

// Update does not check slug uniqueness; that rule applies only on create.
func TestFileRepo_UpdateToTakenSlug(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	if _, err := repo.Create(ctx, sampleInput("shop")); err != nil {
		t.Fatalf("Create shop: %v", err)
	}
	id, err := repo.Create(ctx, sampleInput("blog"))
	if err != nil {
		t.Fatalf("Create blog: %v", err)
	}

	slug := "shop"
	got, err := repo.Update(ctx, id, domain.UpdateProjectInput{Slug: &slug})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Slug != "shop" {
		t.Fatalf("slug = %s, want shop", got.Slug)
	}

	list, err := repo.GetAll(ctx, domain.ListFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	shared := 0
	for _, p := range list.Data {
		if p.Slug == "shop" {
			shared++
		}
	}
	if shared != 2 {
		t.Fatalf("expected both projects to carry slug shop, got %d", shared)
	}
}

func TestFileRepo_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	const workers = 20
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Create(ctx, sampleInput(fmt.Sprintf("c-%02d", i)))
			if err != nil {
				t.Errorf("Create %d: %v", i, err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	list, err := repo.GetAll(ctx, domain.ListFilter{Page: 1, Limit: 100})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if list.Total != workers {
		t.Fatalf("total = %d, want %d", list.Total, workers)
	}

	// Half update, half delete, all at once.
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				if err := repo.Delete(ctx, ids[i]); err != nil {
					t.Errorf("Delete %d: %v", i, err)
				}
				return
			}
			title := fmt.Sprintf("Updated %02d", i)
			if _, err := repo.Update(ctx, ids[i], domain.UpdateProjectInput{Title: &title}); err != nil {
				t.Errorf("Update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	list, err = repo.GetAll(ctx, domain.ListFilter{Page: 1, Limit: 100})
	if err != nil {
		t.Fatalf("GetAll after writes: %v", err)
	}
	if list.Total != workers/2 {
		t.Fatalf("total after deletes = %d, want %d", list.Total, workers/2)
	}
	for _, p := range list.Data {
		if !strings.HasPrefix(p.Title, "Updated ") {
			t.Fatalf("lost update on %s: title %q", p.Slug, p.Title)
		}
	}
}

func TestFileRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo, path := newFileRepo(t)

	id, err := repo.Create(ctx, sampleInput("shop"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatalf("deleting an absent id rewrote the store")
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByID after delete err = %v", err)
	}
}

func TestFileRepo_CorruptStore(t *testing.T) {
	ctx := context.Background()
	repo, path := newFileRepo(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := repo.GetAll(ctx, domain.ListFilter{}); !errors.Is(err, domain.ErrStore) {
		t.Fatalf("GetAll err = %v, want ErrStore", err)
	}
	if err := repo.(Pinger).Ping(ctx); !errors.Is(err, domain.ErrStore) {
		t.Fatalf("Ping err = %v, want ErrStore", err)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

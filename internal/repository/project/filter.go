package project

import (
	"sort"
	"strings"

	"softwise/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// applyFilter runs category, featured and search predicates in that order.
func applyFilter(records []domain.ProjectRecord, f domain.ListFilter) []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, 0, len(records))
	for _, r := range records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.ProjectRecord, f domain.ListFilter) bool {
	if f.Category != "" && !strings.EqualFold(r.Category, f.Category) {
		return false
	}
	// Any value other than the literal "true" selects non-featured projects.
	if f.Featured != "" && r.Featured != (f.Featured == "true") {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			return true
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
		return false
	}
	return true
}

// sortNewestFirst orders by created_at descending; ties keep store order.
func sortNewestFirst(records []domain.ProjectRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return domain.ParseTimestamp(records[i].CreatedAt).After(domain.ParseTimestamp(records[j].CreatedAt))
	})
}

func window(f domain.ListFilter) (page, limit int) {
	page, limit = f.Page, f.Limit
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func paginate(records []domain.ProjectRecord, f domain.ListFilter) []domain.ProjectRecord {
	page, limit := window(f)
	if page-1 >= (len(records)+limit-1)/limit {
		return nil
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func overlay(current domain.ProjectRecord, in domain.UpdateProjectInput) domain.ProjectRecord {
	if in.Title != nil {
		current.Title = *in.Title
	}
	if in.Slug != nil {
		current.Slug = *in.Slug
	}
	if in.Description != nil {
		current.Description = *in.Description
	}
	if in.ImageURL != nil {
		current.ImageURL = *in.ImageURL
	}
	if in.Tags != nil {
		current.Tags = append([]string(nil), in.Tags...)
	}
	if in.Category != nil {
		current.Category = *in.Category
	}
	if in.Link != nil {
		current.Link = cloneString(in.Link)
	}
	if in.Featured != nil {
		current.Featured = *in.Featured
	}
	return current
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

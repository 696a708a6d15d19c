package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"softwise/internal/domain"
	"softwise/internal/result"
)

// ProjectWriter is the slice of the project service the importer needs.
type ProjectWriter interface {
	Create(ctx context.Context, in domain.CreateProjectInput) (result.Result[string], error)
	FindBySlug(ctx context.Context, slug string) (result.Result[*domain.ProjectView], error)
	Update(ctx context.Context, id string, in domain.UpdateProjectInput) (result.Result[*domain.ProjectView], error)
}

// Summary counts what an import run changed.
type Summary struct {
	Created int
	Updated int
}

// Total is the number of projects written.
func (s Summary) Total() int { return s.Created + s.Updated }

// CSVImporter reads project rows and upserts them by slug. The header row
// names the columns: slug, title, description, imageUrl, tags, category,
// link, featured. Tags are separated by "|".
type CSVImporter struct {
	reader   *csv.Reader
	projects ProjectWriter
}

func NewCSVImporter(r io.Reader, projects ProjectWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		projects: projects,
	}
}

type csvRow struct {
	line        int
	Slug        string
	Title       string
	Description string
	ImageURL    string
	Tags        []string
	Category    string
	Link        string
	Featured    bool
}

// Run parses CSV rows and upserts one project per slug. A row without a
// slug continues the previous project and contributes extra tags.
func (i *CSVImporter) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	headers, err := i.reader.Read()
	if err != nil {
		return sum, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["slug"]; !ok {
		return sum, errors.New("read headers: missing slug column")
	}

	var current *csvRow
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("read row: %w", err)
		}

		line, _ := i.reader.FieldPos(0)
		row := parseRow(record, index, line)
		if row == nil {
			continue
		}

		if row.Slug != "" {
			if current != nil {
				if err := i.save(ctx, current, &sum); err != nil {
					return sum, err
				}
			}
			current = row
			continue
		}

		if current != nil {
			current.Tags = append(current.Tags, row.Tags...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current, &sum); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow, sum *Summary) error {
	existing, err := i.projects.FindBySlug(ctx, row.Slug)
	if err != nil {
		return fmt.Errorf("line %d: lookup %q: %w", row.line, row.Slug, err)
	}

	if existing.IsOk() {
		res, err := i.projects.Update(ctx, existing.Value().ID, row.update())
		if err != nil {
			return fmt.Errorf("line %d: update %q: %w", row.line, row.Slug, err)
		}
		if f := res.Failure(); f != nil {
			return fmt.Errorf("line %d: update %q: %w", row.line, row.Slug, f)
		}
		sum.Updated++
		return nil
	}

	res, err := i.projects.Create(ctx, row.create())
	if err != nil {
		return fmt.Errorf("line %d: create %q: %w", row.line, row.Slug, err)
	}
	if f := res.Failure(); f != nil {
		return fmt.Errorf("line %d: create %q: %w", row.line, row.Slug, f)
	}
	sum.Created++
	return nil
}

func (r *csvRow) create() domain.CreateProjectInput {
	in := domain.CreateProjectInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		Category:    r.Category,
		Featured:    r.Featured,
	}
	if r.Link != "" {
		link := r.Link
		in.Link = &link
	}
	return in
}

// update overwrites every column present in the row. Empty cells keep the
// stored value.
func (r *csvRow) update() domain.UpdateProjectInput {
	in := domain.UpdateProjectInput{
		Title:       optional(r.Title),
		Description: optional(r.Description),
		ImageURL:    optional(r.ImageURL),
		Category:    optional(r.Category),
		Link:        optional(r.Link),
		Featured:    &r.Featured,
	}
	if len(r.Tags) > 0 {
		in.Tags = r.Tags
	}
	return in
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) *csvRow {
	slug := pick(record, index, "slug")
	tags := splitTags(pick(record, index, "tags"))
	if slug == "" && len(tags) == 0 {
		return nil
	}

	featured, _ := strconv.ParseBool(pick(record, index, "featured"))
	return &csvRow{
		line:        line,
		Slug:        slug,
		Title:       pick(record, index, "title"),
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "imageUrl"),
		Tags:        tags,
		Category:    pick(record, index, "category"),
		Link:        pick(record, index, "link"),
		Featured:    featured,
	}
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, "|") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

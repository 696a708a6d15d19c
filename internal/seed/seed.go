package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"

	"softwise/internal/domain"
	"softwise/internal/result"

	"gopkg.in/yaml.v3"
)

//go:embed projects.yaml
var defaultProjects []byte

// Creator is the slice of the project service seeding needs.
type Creator interface {
	Create(ctx context.Context, in domain.CreateProjectInput) (result.Result[string], error)
}

// Summary counts what a seed run changed.
type Summary struct {
	Created int
	Skipped int
}

type seedFile struct {
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Tags        []string `yaml:"tags"`
	Category    string   `yaml:"category"`
	Link        string   `yaml:"link"`
	Featured    bool     `yaml:"featured"`
}

// Default returns the portfolio bundled with the binary.
func Default() ([]domain.CreateProjectInput, error) {
	return Parse(bytes.NewReader(defaultProjects))
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) ([]domain.CreateProjectInput, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	out := make([]domain.CreateProjectInput, 0, len(f.Projects))
	for _, p := range f.Projects {
		in := domain.CreateProjectInput{
			Title:       p.Title,
			Slug:        p.Slug,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Tags:        p.Tags,
			Category:    p.Category,
			Featured:    p.Featured,
		}
		if p.Link != "" {
			link := p.Link
			in.Link = &link
		}
		out = append(out, in)
	}
	return out, nil
}

// Apply creates every project through the service. It is idempotent: a
// slug that already exists is skipped.
func Apply(ctx context.Context, svc Creator, projects []domain.CreateProjectInput, logger *log.Logger) (Summary, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	var sum Summary
	for _, p := range projects {
		res, err := svc.Create(ctx, p)
		if err != nil {
			return sum, fmt.Errorf("seed %s: %w", p.Slug, err)
		}
		if f := res.Failure(); f != nil {
			if f.Type == domain.ErrorConflict {
				logger.Printf("seed: slug=%s exists, skipped", p.Slug)
				sum.Skipped++
				continue
			}
			return sum, fmt.Errorf("seed %s: %w", p.Slug, f)
		}
		logger.Printf("seed: slug=%s created id=%s", p.Slug, res.Value())
		sum.Created++
	}
	return sum, nil
}

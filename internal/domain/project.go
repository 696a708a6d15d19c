package domain

import "time"

// TimestampLayout is the ISO-8601 form used for persisted timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ProjectRecord is the persisted shape of a portfolio project.
type ProjectRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Link        *string  `json:"link,omitempty"`
	Featured    bool     `json:"featured"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// ProjectView is the client-facing projection of a ProjectRecord.
type ProjectView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	Link        *string   `json:"link,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProjectInput carries the payload accepted when adding a project.
type CreateProjectInput struct {
	Title       string   `json:"title" validate:"required,min=3"`
	Slug        string   `json:"slug" validate:"required,min=3,kebab"`
	Description string   `json:"description" validate:"required,min=10"`
	ImageURL    string   `json:"imageUrl" validate:"required,url"`
	Tags        []string `json:"tags" validate:"min=1"`
	Category    string   `json:"category" validate:"required"`
	Link        *string  `json:"link,omitempty" validate:"omitempty,url"`
	Featured    bool     `json:"featured"`
}

// UpdateProjectInput is a partial CreateProjectInput. Nil fields keep the
// stored value.
type UpdateProjectInput struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3"`
	Slug        *string  `json:"slug,omitempty" validate:"omitempty,min=3,kebab"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=10"`
	ImageURL    *string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,min=1"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1"`
	Link        *string  `json:"link,omitempty" validate:"omitempty,url"`
	Featured    *bool    `json:"featured,omitempty"`
}

// ProjectQuery holds the list filters as they arrive from clients.
// Page and Limit stay raw so the service owns defaulting and bounds.
type ProjectQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Featured string `form:"featured"`
}

// ListFilter is a normalized ProjectQuery handed to repositories.
type ListFilter struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Featured string
}

// ProjectList is one window of a filtered listing.
type ProjectList struct {
	Data  []ProjectView `json:"data"`
	Total int           `json:"total"`
}

// Pagination describes the window returned by a listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ProjectPage is a listing plus its pagination metadata.
type ProjectPage struct {
	Data       []ProjectView `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// FormatTimestamp renders t in TimestampLayout, always in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a persisted timestamp. Malformed values yield the zero time.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// ViewFromRecord maps a persisted record to its response form.
func ViewFromRecord(r ProjectRecord) ProjectView {
	tags := make([]string, len(r.Tags))
	copy(tags, r.Tags)
	var link *string
	if r.Link != nil {
		l := *r.Link
		link = &l
	}
	return ProjectView{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Tags:        tags,
		Category:    r.Category,
		Link:        link,
		Featured:    r.Featured,
		CreatedAt:   ParseTimestamp(r.CreatedAt),
		UpdatedAt:   ParseTimestamp(r.UpdatedAt),
	}
}

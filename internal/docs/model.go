package docs

import "time"

// Page is one synced documentation file.
type Page struct {
	ID              int            `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	SourcePath      string         `json:"source_path"`
	Content         string         `json:"content"`
	ContentHTML     *string        `json:"content_html"`
	Category        *string        `json:"category"`
	Tags            []string       `json:"tags"`
	Metadata        map[string]any `json:"metadata"`
	SourceUpdatedAt *time.Time     `json:"source_updated_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type Filter struct {
	Category string
	Search   string
	Page     int
	PageSize int
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

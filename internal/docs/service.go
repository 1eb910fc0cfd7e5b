package docs

import (
	"context"
	"strings"

	"so101builder/internal/apperrors"
	"so101builder/internal/logger"
)

const (
	excerptLength  = 200
	excerptContext = 100

	defaultPageSize    = 20
	maxPageSize        = 100
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	minQueryLength     = 2
)

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

type Summary struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
	Excerpt  string   `json:"excerpt"`
}

type List struct {
	Items    []Summary `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

func (s *Service) List(ctx context.Context, f Filter) (*List, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = defaultPageSize
	}
	if f.Page < 1 {
		return nil, apperrors.Validation("page must be >= 1")
	}
	if f.PageSize < 1 || f.PageSize > maxPageSize {
		return nil, apperrors.Validation("page_size must be between 1 and 100")
	}

	pages, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &List{Items: make([]Summary, 0, len(pages)), Total: total, Page: f.Page, PageSize: f.PageSize}
	for _, p := range pages {
		out.Items = append(out.Items, Summary{
			ID:       p.ID,
			Title:    p.Title,
			Slug:     p.Slug,
			Category: p.Category,
			Tags:     p.Tags,
			Excerpt:  Excerpt(p.Content),
		})
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) Get(ctx context.Context, slug string) (*Page, error) {
	return s.repo.GetBySlug(ctx, slug)
}

type Hit struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Slug     string  `json:"slug"`
	Category *string `json:"category"`
	Excerpt  string  `json:"excerpt"`
}

type SearchResult struct {
	Query   string `json:"query"`
	Results []Hit  `json:"results"`
	Total   int    `json:"total"`
}

// Search is a plain substring match, not a ranked full-text search.
func (s *Service) Search(ctx context.Context, q string, limit int) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minQueryLength {
		return nil, apperrors.Validation("q must be at least 2 characters")
	}
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if limit < 1 || limit > maxSearchLimit {
		return nil, apperrors.Validation("limit must be between 1 and 50")
	}

	pages, err := s.repo.Search(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	out := &SearchResult{Query: q, Results: make([]Hit, 0, len(pages)), Total: len(pages)}
	for _, p := range pages {
		out.Results = append(out.Results, Hit{
			ID:       p.ID,
			Title:    p.Title,
			Slug:     p.Slug,
			Category: p.Category,
			Excerpt:  ExcerptAround(p.Content, q),
		})
	}
	return out, nil
}

// Excerpt returns the first 200 characters, with "..." when cut.
func Excerpt(content string) string {
	r := []rune(content)
	if len(r) <= excerptLength {
		return content
	}
	return string(r[:excerptLength]) + "..."
}

// ExcerptAround returns up to 100 characters either side of the first
// case-insensitive match of q. Without a match it falls back to Excerpt.
func ExcerptAround(content, q string) string {
	text := []rune(content)
	pos := indexFold(text, []rune(q))
	if pos < 0 {
		return Excerpt(content)
	}

	start := max(0, pos-excerptContext)
	end := min(len(text), pos+len([]rune(q))+excerptContext)

	out := string(text[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out += "..."
	}
	return out
}

func indexFold(text, q []rune) int {
	if len(q) == 0 {
		return 0
	}
	for i := 0; i+len(q) <= len(text); i++ {
		if strings.EqualFold(string(text[i:i+len(q)]), string(q)) {
			return i
		}
	}
	return -1
}

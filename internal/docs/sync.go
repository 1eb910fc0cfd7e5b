package docs

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"so101builder/internal/logger"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var defaultManifest []byte

type ManifestEntry struct {
	Path     string         `yaml:"path"`
	Title    string         `yaml:"title"`
	Category string         `yaml:"category"`
	Tags     []string       `yaml:"tags"`
	Metadata map[string]any `yaml:"metadata"`
}

type Manifest struct {
	Docs []ManifestEntry `yaml:"docs"`
}

func DefaultManifest() (*Manifest, error) {
	return ParseManifest(defaultManifest)
}

func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse docs manifest: %w", err)
	}
	for i, d := range m.Docs {
		if d.Path == "" || d.Title == "" {
			return nil, fmt.Errorf("docs manifest entry %d: path and title are required", i)
		}
	}
	return &m, nil
}

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSeparate = regexp.MustCompile(`[-\s]+`)
)

// Slugify lowercases text, drops punctuation and joins words with "-".
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSeparate.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// RenderHTML converts markdown to HTML.
func RenderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.ToHTML([]byte(md), p, r))
}

type SyncReport struct {
	Created int
	Updated int
	Skipped int
}

// Sync upserts every manifest file found under root. Missing files are
// skipped, not treated as errors.
func Sync(ctx context.Context, repo Repository, root string, m *Manifest, log *logger.Logger) (SyncReport, error) {
	var report SyncReport

	for _, entry := range m.Docs {
		raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(entry.Path)))
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("doc file not found, skipping", "path", entry.Path)
			report.Skipped++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("read %s: %w", entry.Path, err)
		}

		now := time.Now().UTC()
		content := string(raw)
		rendered := RenderHTML(content)
		page := &Page{
			Title:           entry.Title,
			Slug:            Slugify(entry.Title),
			SourcePath:      entry.Path,
			Content:         content,
			ContentHTML:     &rendered,
			Tags:            entry.Tags,
			Metadata:        entry.Metadata,
			SourceUpdatedAt: &now,
		}
		if entry.Category != "" {
			category := entry.Category
			page.Category = &category
		}
		if page.Tags == nil {
			page.Tags = []string{}
		}
		if page.Metadata == nil {
			page.Metadata = map[string]any{}
		}

		created, err := repo.Upsert(ctx, page)
		if err != nil {
			return report, err
		}
		if created {
			report.Created++
			log.Info("doc created", "slug", page.Slug)
		} else {
			report.Updated++
			log.Info("doc updated", "slug", page.Slug)
		}
	}
	return report, nil
}

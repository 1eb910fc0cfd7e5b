package docs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"so101builder/internal/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pageColumns = `
	id,
	title,
	slug,
	source_path,
	content,
	content_html,
	category,
	COALESCE(tags, '[]'::jsonb),
	COALESCE(metadata, '{}'::jsonb),
	source_updated_at,
	created_at,
	updated_at
`

func scanPage(row pgx.Row) (*Page, error) {
	var p Page
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.SourcePath,
		&p.Content,
		&p.ContentHTML,
		&p.Category,
		&p.Tags,
		&p.Metadata,
		&p.SourceUpdatedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPages(rows pgx.Rows) ([]*Page, error) {
	defer rows.Close()
	var out []*Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*Page, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(title ILIKE "+p+" OR content ILIKE "+p+")")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documentation`+clause, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Database(err)
	}

	query := `SELECT ` + pageColumns + ` FROM documentation` + clause +
		` ORDER BY id LIMIT ` + arg(f.PageSize) + ` OFFSET ` + arg(f.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	out, err := collectPages(rows)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	return out, total, nil
}

func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT category
		FROM documentation
		WHERE category IS NOT NULL
		ORDER BY category
	`)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return out, nil
}

func (r *PostgresRepository) Search(ctx context.Context, q string, limit int) ([]*Page, error) {
	rows, err := r.db.Query(ctx, `SELECT `+pageColumns+`
		FROM documentation
		WHERE title ILIKE $1 OR content ILIKE $1
		ORDER BY id
		LIMIT $2
	`, "%"+q+"%", limit)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	out, err := collectPages(rows)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return out, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	p, err := scanPage(r.db.QueryRow(ctx, `SELECT `+pageColumns+` FROM documentation WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Documentation")
		}
		return nil, apperrors.Database(err)
	}
	return p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *Page) (bool, error) {
	var created bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO documentation
			(title, slug, source_path, content, content_html, category, tags, metadata,
			 source_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			source_path = EXCLUDED.source_path,
			content = EXCLUDED.content,
			content_html = EXCLUDED.content_html,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			metadata = EXCLUDED.metadata,
			source_updated_at = EXCLUDED.source_updated_at,
			updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0)
	`,
		p.Title,
		p.Slug,
		p.SourcePath,
		p.Content,
		p.ContentHTML,
		p.Category,
		p.Tags,
		p.Metadata,
		p.SourceUpdatedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &created)
	if err != nil {
		return false, apperrors.Database(err)
	}
	return created, nil
}

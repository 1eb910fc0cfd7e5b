package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const componentColumns = `
	c.id,
	c.name,
	c.slug,
	c.category_id,
	COALESCE(cat.name, ''),
	COALESCE(cat.slug, ''),
	cat.icon,
	c.description,
	c.image_url,
	c.specifications,
	c.is_default_for_so101,
	c.quantity_per_arm,
	c.arm_type,
	c.created_at,
	c.updated_at
`

const componentFrom = `
	FROM components c
	LEFT JOIN categories cat ON cat.id = c.category_id
`

func scanComponent(row pgx.Row) (*Component, error) {
	var c Component
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.CategoryID,
		&c.CategoryName,
		&c.CategorySlug,
		&c.CategoryIcon,
		&c.Description,
		&c.ImageURL,
		&c.Specifications,
		&c.IsDefault,
		&c.QuantityPerArm,
		&c.ArmType,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Specifications == nil {
		c.Specifications = map[string]any{}
	}
	return &c, nil
}

func collectComponents(rows pgx.Rows) ([]*Component, error) {
	defer rows.Close()

	var out []*Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Engine reads
// --------------------------------------------------

func (r *PostgresRepository) GetComponent(ctx context.Context, id int) (*Component, error) {
	row := r.db.QueryRow(ctx, `SELECT `+componentColumns+componentFrom+` WHERE c.id = $1`, id)

	c, err := scanComponent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("component")
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return c, nil
}

// GetComponents tolerates partial results; callers diff the ids.
func (r *PostgresRepository) GetComponents(ctx context.Context, ids []int) ([]*Component, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+componentColumns+componentFrom+` WHERE c.id = ANY($1) ORDER BY c.id`,
		ids,
	)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	out, err := collectComponents(rows)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return out, nil
}

// GetOffers returns offers in stored (id) order. Offers whose vendor is gone
// come back with an empty VendorName.
func (r *PostgresRepository) GetOffers(ctx context.Context, componentID int) ([]Offer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			p.id,
			p.component_id,
			p.vendor_id,
			COALESCE(v.name, ''),
			COALESCE(v.slug, ''),
			p.price::float8,
			p.currency,
			p.original_price::float8,
			p.shipping_cost::float8,
			p.product_url,
			p.in_stock,
			p.stock_quantity,
			p.price_fetched_at
		FROM component_prices p
		LEFT JOIN vendors v ON v.id = p.vendor_id
		WHERE p.component_id = $1
		ORDER BY p.id
	`, componentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(
			&o.ID,
			&o.ComponentID,
			&o.VendorID,
			&o.VendorName,
			&o.VendorSlug,
			&o.Price,
			&o.Currency,
			&o.OriginalPrice,
			&o.ShippingCost,
			&o.ProductURL,
			&o.InStock,
			&o.StockQuantity,
			&o.FetchedAt,
		); err != nil {
			return nil, apperrors.Database(err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Database(err)
	}
	return offers, nil
}

// --------------------------------------------------
// Browsing
// --------------------------------------------------

func (r *PostgresRepository) ListComponents(ctx context.Context, f ComponentFilter) ([]*Component, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategoryID != nil {
		where = append(where, "c.category_id = "+arg(*f.CategoryID))
	}
	if f.CategorySlug != "" {
		where = append(where, "cat.slug = "+arg(f.CategorySlug))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(c.name ILIKE "+p+" OR c.description ILIKE "+p+")")
	}
	if f.IsDefault != nil {
		where = append(where, "c.is_default_for_so101 = "+arg(*f.IsDefault))
	}
	if f.ArmType != "" {
		where = append(where, "(c.arm_type = "+arg(f.ArmType)+" OR c.arm_type = 'both')")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+componentFrom+clause, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Database(err)
	}

	query := `SELECT ` + componentColumns + componentFrom + clause +
		` ORDER BY c.id LIMIT ` + arg(f.PageSize) + ` OFFSET ` + arg(f.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	out, err := collectComponents(rows)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	return out, total, nil
}

func (r *PostgresRepository) ListDefaults(ctx context.Context, armType string) ([]*Component, error) {
	query := `SELECT ` + componentColumns + componentFrom + ` WHERE c.is_default_for_so101 = TRUE`
	if armType == "single" {
		query += ` AND c.arm_type IN ('follower', 'both')`
	}
	rows, err := r.db.Query(ctx, query+` ORDER BY c.id`)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	out, err := collectComponents(rows)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return out, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, icon, sort_order
		FROM categories
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.SortOrder); err != nil {
			return nil, apperrors.Database(err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int) (*Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, slug, description, icon, sort_order
		FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.SortOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("category")
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return &c, nil
}

func (r *PostgresRepository) GetVendor(ctx context.Context, id int) (*Vendor, error) {
	var v Vendor
	err := r.db.QueryRow(ctx, `
		SELECT id, name, slug, website_url, description, is_active,
		       ships_to_us, ships_to_eu, typical_shipping_days
		FROM vendors WHERE id = $1
	`, id).Scan(
		&v.ID, &v.Name, &v.Slug, &v.WebsiteURL, &v.Description, &v.IsActive,
		&v.ShipsToUS, &v.ShipsToEU, &v.TypicalShippingDays,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("vendor")
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return &v, nil
}

func (r *PostgresRepository) ListComponentIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM components ORDER BY id`)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Database(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *PostgresRepository) CreateComponent(ctx context.Context, c *Component) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO components (
			name, slug, category_id, description, image_url,
			specifications, is_default_for_so101, quantity_per_arm, arm_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`,
		c.Name, c.Slug, c.CategoryID, c.Description, c.ImageURL,
		c.Specifications, c.IsDefault, c.QuantityPerArm, c.ArmType,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (r *PostgresRepository) UpdateOfferPrice(ctx context.Context, offerID int, price float64, fetchedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE component_prices
		SET price = $2, price_fetched_at = $3, updated_at = now()
		WHERE id = $1
	`, offerID, price, fetchedAt)
	if err != nil {
		return apperrors.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("offer")
	}
	return nil
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *PostgresRepository) UpsertCategory(ctx context.Context, c *Category) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			icon = EXCLUDED.icon,
			sort_order = EXCLUDED.sort_order,
			updated_at = now()
		RETURNING id
	`, c.Name, c.Slug, c.Description, c.Icon, c.SortOrder).Scan(&c.ID)
}

func (r *PostgresRepository) UpsertVendor(ctx context.Context, v *Vendor) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO vendors (
			name, slug, website_url, description, is_active,
			ships_to_us, ships_to_eu, typical_shipping_days
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			website_url = EXCLUDED.website_url,
			description = EXCLUDED.description,
			is_active = EXCLUDED.is_active,
			ships_to_us = EXCLUDED.ships_to_us,
			ships_to_eu = EXCLUDED.ships_to_eu,
			typical_shipping_days = EXCLUDED.typical_shipping_days,
			updated_at = now()
		RETURNING id
	`,
		v.Name, v.Slug, v.WebsiteURL, v.Description, v.IsActive,
		v.ShipsToUS, v.ShipsToEU, v.TypicalShippingDays,
	).Scan(&v.ID)
}

func (r *PostgresRepository) UpsertComponent(ctx context.Context, c *Component) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO components (
			name, slug, category_id, description, image_url,
			specifications, is_default_for_so101, quantity_per_arm, arm_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			category_id = EXCLUDED.category_id,
			description = EXCLUDED.description,
			specifications = EXCLUDED.specifications,
			is_default_for_so101 = EXCLUDED.is_default_for_so101,
			quantity_per_arm = EXCLUDED.quantity_per_arm,
			arm_type = EXCLUDED.arm_type,
			updated_at = now()
		RETURNING id
	`,
		c.Name, c.Slug, c.CategoryID, c.Description, c.ImageURL,
		c.Specifications, c.IsDefault, c.QuantityPerArm, c.ArmType,
	).Scan(&c.ID)
}

func (r *PostgresRepository) UpsertOffer(ctx context.Context, o *Offer) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO component_prices (
			component_id, vendor_id, price, currency, product_url, in_stock, price_fetched_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (component_id, vendor_id) DO UPDATE SET
			price = EXCLUDED.price,
			product_url = EXCLUDED.product_url,
			in_stock = EXCLUDED.in_stock,
			price_fetched_at = EXCLUDED.price_fetched_at,
			updated_at = now()
		RETURNING id
	`,
		o.ComponentID, o.VendorID, o.Price, o.Currency, o.ProductURL, o.InStock, o.FetchedAt,
	).Scan(&o.ID)
}

package db

// Schema is applied in order on every start. Statements must stay idempotent.
var Schema = []string{
	// -------------------------------
	// CATALOG
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		slug VARCHAR(100) UNIQUE NOT NULL,
		description TEXT,
		icon VARCHAR(50),
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS vendors (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		slug VARCHAR(200) UNIQUE NOT NULL,
		website_url VARCHAR(500),
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		ships_to_us BOOLEAN NOT NULL DEFAULT TRUE,
		ships_to_eu BOOLEAN NOT NULL DEFAULT FALSE,
		typical_shipping_days INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS components (
		id SERIAL PRIMARY KEY,
		name VARCHAR(300) NOT NULL,
		slug VARCHAR(300) UNIQUE NOT NULL,
		category_id INTEGER NOT NULL REFERENCES categories(id),
		description TEXT,
		image_url VARCHAR(500),
		specifications JSONB NOT NULL DEFAULT '{}'::jsonb,
		is_default_for_so101 BOOLEAN NOT NULL DEFAULT FALSE,
		quantity_per_arm INTEGER NOT NULL DEFAULT 1,
		arm_type VARCHAR(20),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_components_category ON components (category_id)`,
	// vendor_id carries no foreign key: an offer may outlive its vendor and
	// is then read as unpriced.
	`CREATE TABLE IF NOT EXISTS component_prices (
		id SERIAL PRIMARY KEY,
		component_id INTEGER NOT NULL REFERENCES components(id) ON DELETE CASCADE,
		vendor_id INTEGER NOT NULL,
		price NUMERIC(10, 2) NOT NULL,
		currency VARCHAR(3) NOT NULL DEFAULT 'USD',
		original_price NUMERIC(10, 2),
		shipping_cost NUMERIC(10, 2),
		product_url VARCHAR(1000),
		in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		stock_quantity INTEGER,
		price_fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (component_id, vendor_id)
	)`,

	// -------------------------------
	// SETUPS
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS setups (
		id UUID PRIMARY KEY,
		name VARCHAR(200),
		wizard_profile JSONB NOT NULL DEFAULT '{}'::jsonb,
		current_step INTEGER NOT NULL DEFAULT 1,
		wizard_completed BOOLEAN NOT NULL DEFAULT FALSE,
		arm_type VARCHAR(20) NOT NULL DEFAULT 'single',
		recommendations JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS ix_setups_expires_at ON setups (expires_at)`,
	`CREATE TABLE IF NOT EXISTS setup_components (
		id SERIAL PRIMARY KEY,
		setup_id UUID NOT NULL REFERENCES setups(id) ON DELETE CASCADE,
		component_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		notes TEXT,
		selected_vendor_id INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (setup_id, component_id)
	)`,

	// -------------------------------
	// DOCUMENTATION
	// -------------------------------
	`CREATE TABLE IF NOT EXISTS documentation (
		id SERIAL PRIMARY KEY,
		title VARCHAR(300) NOT NULL,
		slug VARCHAR(300) UNIQUE NOT NULL,
		source_path VARCHAR(500) NOT NULL,
		content TEXT NOT NULL,
		content_html TEXT,
		category VARCHAR(100),
		tags JSONB DEFAULT '[]'::jsonb,
		metadata JSONB DEFAULT '{}'::jsonb,
		source_updated_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_documentation_category ON documentation (category)`,
}

package setup

import (
	"context"
	"errors"
	"time"

	"so101builder/internal/apperrors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Setups
// --------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, s *Setup) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO setups (
			id, name, wizard_profile, current_step, wizard_completed, arm_type, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`,
		s.ID, s.Name, s.Profile, s.CurrentStep, s.WizardCompleted, s.ArmType, s.ExpiresAt,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Setup, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("Setup")
	}
	var s Setup
	err := r.db.QueryRow(ctx, `
		SELECT
			id::text,
			name,
			wizard_profile,
			current_step,
			wizard_completed,
			arm_type,
			recommendations,
			created_at,
			updated_at,
			expires_at
		FROM setups
		WHERE id = $1
		  AND (expires_at IS NULL OR expires_at > now())
	`, id).Scan(
		&s.ID,
		&s.Name,
		&s.Profile,
		&s.CurrentStep,
		&s.WizardCompleted,
		&s.ArmType,
		&s.Recommendations,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("Setup")
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT component_id, quantity, notes, selected_vendor_id, created_at
		FROM setup_components
		WHERE setup_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	defer rows.Close()

	for rows.Next() {
		var sel Selection
		if err := rows.Scan(
			&sel.ComponentID,
			&sel.Quantity,
			&sel.Notes,
			&sel.SelectedVendorID,
			&sel.CreatedAt,
		); err != nil {
			return nil, apperrors.Database(err)
		}
		s.Selections = append(s.Selections, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Database(err)
	}

	return &s, nil
}

// Update is last-write-wins.
func (r *PostgresRepository) Update(ctx context.Context, s *Setup) error {
	err := r.db.QueryRow(ctx, `
		UPDATE setups
		SET
			name = $2,
			wizard_profile = $3,
			current_step = $4,
			wizard_completed = $5,
			arm_type = $6,
			recommendations = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`,
		s.ID, s.Name, s.Profile, s.CurrentStep, s.WizardCompleted, s.ArmType, s.Recommendations,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("Setup")
	}
	if err != nil {
		return apperrors.Database(err)
	}
	return nil
}

// Delete removes the setup; selections go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("Setup")
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM setups WHERE id = $1`, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Setup")
	}
	return nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM setups
		WHERE expires_at IS NOT NULL AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return int(tag.RowsAffected()), nil
}

// --------------------------------------------------
// Selections
// --------------------------------------------------

func (r *PostgresRepository) UpsertSelection(ctx context.Context, setupID string, sel Selection) error {
	if !validID(setupID) {
		return apperrors.NotFound("Setup")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO setup_components (setup_id, component_id, quantity, notes, selected_vendor_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (setup_id, component_id)
		DO UPDATE SET
			quantity = EXCLUDED.quantity,
			notes = EXCLUDED.notes,
			selected_vendor_id = EXCLUDED.selected_vendor_id
	`,
		setupID, sel.ComponentID, sel.Quantity, sel.Notes, sel.SelectedVendorID,
	)
	if err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (r *PostgresRepository) DeleteSelection(ctx context.Context, setupID string, componentID int) error {
	if !validID(setupID) {
		return apperrors.NotFound("Setup")
	}
	tag, err := r.db.Exec(ctx, `
		DELETE FROM setup_components
		WHERE setup_id = $1 AND component_id = $2
	`, setupID, componentID)
	if err != nil {
		return apperrors.Database(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("Setup component")
	}
	return nil
}

// validID keeps malformed ids away from the uuid column, where they would
// fail as a cast error instead of reading as missing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
)

const availabilityColumns = "id, user_id, kind, days, time_ranges, date_windows, slot_duration_minutes, valid_from, valid_to, active, created_at, updated_at"

// AvailabilityRepository provides persistence for availability rules.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create stores a new availability rule.
func (r *AvailabilityRepository) Create(ctx context.Context, rule *models.AvailabilityRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	const query = `INSERT INTO availability_rules (id, user_id, kind, days, time_ranges, date_windows, slot_duration_minutes, valid_from, valid_to, active, created_at, updated_at) VALUES (:id, :user_id, :kind, :days, :time_ranges, :date_windows, :slot_duration_minutes, :valid_from, :valid_to, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("create availability rule: %w", err)
	}
	return nil
}

// FindByID loads an availability rule by id.
func (r *AvailabilityRepository) FindByID(ctx context.Context, id string) (*models.AvailabilityRule, error) {
	query := fmt.Sprintf("SELECT %s FROM availability_rules WHERE id = $1", availabilityColumns)
	var rule models.AvailabilityRule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListByUser returns a user's rules, optionally restricted to active ones,
// newest first.
func (r *AvailabilityRepository) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.AvailabilityRule, error) {
	query := fmt.Sprintf("SELECT %s FROM availability_rules WHERE user_id = $1", availabilityColumns)
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY created_at DESC"

	var rules []models.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, userID); err != nil {
		return nil, fmt.Errorf("list availability rules: %w", err)
	}
	return rules, nil
}

// Update modifies an availability rule.
func (r *AvailabilityRepository) Update(ctx context.Context, rule *models.AvailabilityRule) error {
	rule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE availability_rules SET kind = :kind, days = :days, time_ranges = :time_ranges, date_windows = :date_windows, slot_duration_minutes = :slot_duration_minutes, valid_from = :valid_from, valid_to = :valid_to, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("update availability rule: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a rule so it is excluded from generation.
func (r *AvailabilityRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE availability_rules SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate availability rule: %w", err)
	}
	return nil
}

// Delete removes a rule by id.
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM availability_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete availability rule: %w", err)
	}
	return nil
}

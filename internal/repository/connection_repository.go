package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
)

// ConnectionRepository reads mentorship connections. The request/accept
// workflow is owned by the connections service; booking only needs lookups.
type ConnectionRepository struct {
	db *sqlx.DB
}

// NewConnectionRepository creates a new connection repository.
func NewConnectionRepository(db *sqlx.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// FindByID loads a connection by id.
func (r *ConnectionRepository) FindByID(ctx context.Context, id string) (*models.Connection, error) {
	const query = `SELECT id, mentor_id, mentee_id, status, requested_at, responded_at FROM connections WHERE id = $1`
	var conn models.Connection
	if err := r.db.GetContext(ctx, &conn, query, id); err != nil {
		return nil, err
	}
	return &conn, nil
}

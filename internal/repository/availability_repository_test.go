package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAvailabilityRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("INSERT INTO availability_rules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rule := &models.AvailabilityRule{
		UserID:              "u1",
		Kind:                models.RuleKindWeekly,
		Days:                models.StringList{"mon", "wed"},
		TimeRanges:          models.TimeRangeList{{From: "09:00", To: "17:00"}},
		SlotDurationMinutes: 30,
		Active:              true,
	}
	require.NoError(t, repo.Create(context.Background(), rule))
	assert.NotEmpty(t, rule.ID)
	assert.False(t, rule.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListByUserActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "kind", "days", "time_ranges", "date_windows", "slot_duration_minutes", "valid_from", "valid_to", "active", "created_at", "updated_at"}).
		AddRow("r1", "u1", "weekly", []byte(`["mon"]`), []byte(`[{"from":"09:00","to":"10:00"}]`), []byte(`[]`), 30, nil, nil, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, kind, days, time_ranges, date_windows, slot_duration_minutes, valid_from, valid_to, active, created_at, updated_at FROM availability_rules WHERE user_id = $1 AND active = TRUE ORDER BY created_at DESC")).
		WithArgs("u1").
		WillReturnRows(rows)

	rules, err := repo.ListByUser(context.Background(), "u1", true)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, models.RuleKindWeekly, rules[0].Kind)
	assert.Equal(t, models.StringList{"mon"}, rules[0].Days)
	require.Len(t, rules[0].TimeRanges, 1)
	assert.Equal(t, "09:00", rules[0].TimeRanges[0].From)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryUpdateDeactivateDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("UPDATE availability_rules SET kind").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Update(context.Background(), &models.AvailabilityRule{ID: "r1", Kind: models.RuleKindWeekly}))

	mock.ExpectExec("UPDATE availability_rules SET active = FALSE").
		WithArgs("r1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Deactivate(context.Background(), "r1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_rules WHERE id = $1")).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Delete(context.Background(), "r1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

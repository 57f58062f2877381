package reservation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

type fakeExecutor struct {
	query   string
	args    []interface{}
	result  sql.Result
	execErr error
}

func (f *fakeExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.query = query
	f.args = args
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.result, nil
}

func (f *fakeExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	f.query = query
	f.args = args
	return nil, errors.New("connection refused")
}

func newReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              uuid.New(),
		Date:            time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		TimeOfDay:       "11:00",
		BookingType:     domain.BookingTypeNormal,
		FulfillmentPath: domain.FulfillmentDelivery,
		Count:           1,
		Status:          domain.ReservationConfirmed,
		OrderRef:        "order-1",
		CreatedAt:       time.Date(2026, 10, 13, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreate(t *testing.T) {
	db := &fakeExecutor{result: fakeResult{rows: 1}}
	repo := NewRepository(db)
	res := newReservation()

	saved, err := repo.Create(context.Background(), res)
	require.NoError(t, err)
	assert.Equal(t, res, saved)

	assert.Contains(t, db.query, "INSERT INTO reservations")
	assert.Contains(t, db.query, "ON CONFLICT (id) DO NOTHING")
	assert.Contains(t, db.query, "$9")
	require.Len(t, db.args, 9)
	assert.Equal(t, res.ID, db.args[0])
	assert.Equal(t, res.OrderRef, db.args[7])
}

func TestCreate_ExecError(t *testing.T) {
	repo := NewRepository(&fakeExecutor{execErr: errors.New("duplicate")})

	_, err := repo.Create(context.Background(), newReservation())
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestMarkReleased(t *testing.T) {
	db := &fakeExecutor{result: fakeResult{rows: 1}}
	repo := NewRepository(db)
	id := uuid.New()
	at := time.Date(2026, 10, 13, 10, 30, 0, 0, time.UTC)

	require.NoError(t, repo.MarkReleased(context.Background(), id, at, domain.ReleasePaymentFailed))

	assert.Contains(t, db.query, "UPDATE reservations SET status = $1")
	assert.Contains(t, db.query, "status <> $5")
	require.Len(t, db.args, 5)
	assert.Equal(t, domain.ReservationReleased, db.args[0])
	assert.Equal(t, at, db.args[1])
	assert.Equal(t, domain.ReleasePaymentFailed, db.args[2])
	assert.Equal(t, id.String(), db.args[3])
}

func TestMarkReleased_NotFound(t *testing.T) {
	repo := NewRepository(&fakeExecutor{result: fakeResult{rows: 0}})

	err := repo.MarkReleased(context.Background(), uuid.New(), time.Now(), domain.ReleaseCancelled)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestActiveFromQuery(t *testing.T) {
	from := time.Date(2026, 10, 13, 18, 45, 0, 0, time.FixedZone("PHT", 8*3600))

	query, args, err := activeFromQuery(from).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM reservations")
	assert.Contains(t, query, "reservation_date >= $1")
	assert.Contains(t, query, "status IN ($2,$3)")
	assert.Contains(t, query, "ORDER BY reservation_date, time_of_day")
	require.Len(t, args, 3)
	assert.Equal(t, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), args[0])
}

func TestGetActiveFrom_QueryError(t *testing.T) {
	repo := NewRepository(&fakeExecutor{})

	_, err := repo.GetActiveFrom(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrExecQuery)
}

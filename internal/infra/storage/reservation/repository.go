package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/psqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"reservation_date",
	"time_of_day",
	"booking_type",
	"fulfillment_path",
	"count",
	"status",
	"order_ref",
	"created_at",
	"released_at",
}

// Repository репозиторий подтвержденных резервов слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резервов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет резерв. Повторное сохранение того же ID ничего не меняет
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:9]...).
		Values(
			res.ID,
			res.Date,
			res.TimeOfDay,
			res.BookingType,
			res.FulfillmentPath,
			res.Count,
			res.Status,
			res.OrderRef,
			res.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return res, nil
}

// MarkReleased помечает активный резерв освобожденным
func (r *Repository) MarkReleased(ctx context.Context, id uuid.UUID, releasedAt time.Time, reason domain.ReleaseReason) error {
	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.ReservationReleased).
		Set("released_at", releasedAt).
		Set("release_reason", reason).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.ReservationReleased}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReleased - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReleased - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReleased - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// GetActiveFrom возвращает активные резервы на даты начиная с from, по возрастанию даты и времени
func (r *Repository) GetActiveFrom(ctx context.Context, from time.Time) ([]*domain.Reservation, error) {
	query, args, err := activeFromQuery(from).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveFrom - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveFrom - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		var (
			res        domain.Reservation
			releasedAt sql.NullTime
		)

		err := rows.Scan(
			&res.ID,
			&res.Date,
			&res.TimeOfDay,
			&res.BookingType,
			&res.FulfillmentPath,
			&res.Count,
			&res.Status,
			&res.OrderRef,
			&res.CreatedAt,
			&releasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveFrom - scan row: %v", ErrScanRow, err)
		}

		if releasedAt.Valid {
			res.ReleasedAt = &releasedAt.Time
		}

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveFrom - rows iteration: %v", ErrScanRow, err)
	}

	return reservations, nil
}

func activeFromQuery(from time.Time) squirrel.SelectBuilder {
	y, m, d := from.Date()
	return psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"reservation_date": time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}).
		Where(squirrel.Eq{"status": []domain.ReservationStatus{domain.ReservationHeld, domain.ReservationConfirmed}}).
		OrderBy("reservation_date", "time_of_day")
}

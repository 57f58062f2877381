package settle_payment

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	reservationRepo "github.com/m04kA/SMC-LaundryScheduler/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/calendar"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/catalog"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/ledger"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/logger"
)

// --- Setup ---

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var (
	today     = time.Date(2026, 10, 13, 10, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
)

type mockReservationRepository struct {
	mu        sync.Mutex
	saved     map[uuid.UUID]*domain.Reservation
	released  map[uuid.UUID]domain.ReleaseReason
	failAfter int // Create падает после failAfter успешных вызовов; <0 - никогда
}

func newMockReservationRepository() *mockReservationRepository {
	return &mockReservationRepository{
		saved:     make(map[uuid.UUID]*domain.Reservation),
		released:  make(map[uuid.UUID]domain.ReleaseReason),
		failAfter: -1,
	}
}

func (m *mockReservationRepository) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && len(m.saved) >= m.failAfter {
		return nil, errors.New("connection reset")
	}
	m.saved[res.ID] = res
	return res, nil
}

func (m *mockReservationRepository) MarkReleased(_ context.Context, id uuid.UUID, _ time.Time, reason domain.ReleaseReason) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.saved[id]; !ok {
		return reservationRepo.ErrReservationNotFound
	}
	m.released[id] = reason
	return nil
}

func setupSettlePaymentTest(t *testing.T) (*UseCase, *ledger.Ledger, *mockReservationRepository) {
	t.Helper()

	cat, err := catalog.New(domain.ShopHours{Open: "08:00", Close: "20:00"}, map[domain.CatalogKey][]domain.TimeSlotDefinition{
		{BookingType: domain.BookingTypeRush, FulfillmentPath: domain.FulfillmentDelivery}: {
			{TimeOfDay: "10:00", DisplayLabel: "10:00 AM", TotalCapacity: 2},
		},
		{BookingType: domain.BookingTypeRush, FulfillmentPath: domain.FulfillmentSelfClaim}: {
			{TimeOfDay: "18:00", DisplayLabel: "6:00 PM", TotalCapacity: 2},
		},
	})
	require.NoError(t, err)

	cal, err := calendar.New(time.Sunday, 30)
	require.NoError(t, err)

	log, err := logger.NewWithWriter(io.Discard, "debug")
	require.NoError(t, err)

	clock := fixedClock{now: today}
	l := ledger.New(cat, cal, clock, nil, log)
	repo := newMockReservationRepository()

	uc := NewUseCase(l, repo, log)
	uc.timeProvider = clock

	return uc, l, repo
}

func deliveryKey() domain.CellKey {
	return domain.NewCellKey(wednesday, "10:00", domain.BookingTypeRush, domain.FulfillmentDelivery)
}

func selfClaimKey() domain.CellKey {
	return domain.NewCellKey(wednesday, "18:00", domain.BookingTypeRush, domain.FulfillmentSelfClaim)
}

func hold(t *testing.T, l *ledger.Ledger) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	delivery, err := l.Reserve(ctx, deliveryKey(), 1, "order-1")
	require.NoError(t, err)
	selfClaim, err := l.Reserve(ctx, selfClaimKey(), 1, "order-1")
	require.NoError(t, err)

	return []uuid.UUID{delivery.ID, selfClaim.ID}
}

// --- Tests ---

func TestExecute_PaymentSucceeded(t *testing.T) {
	uc, l, repo := setupSettlePaymentTest(t)
	ids := hold(t, l)

	resp, err := uc.Execute(context.Background(), &Request{
		OrderRef:       "order-1",
		Outcome:        domain.PaymentSucceeded,
		ReservationIDs: ids,
	})
	require.NoError(t, err)

	require.Len(t, resp.Reservations, 2)
	for _, res := range resp.Reservations {
		assert.Equal(t, domain.ReservationConfirmed, res.Status)
		assert.Contains(t, repo.saved, res.ID)
	}

	// подтвержденный резерв не истекает
	assert.Equal(t, 0, l.ExpireHolds(context.Background(), today.Add(time.Hour), time.Minute))
	assert.Equal(t, 1, l.Reserved(deliveryKey()))
}

func TestExecute_PaymentFailed(t *testing.T) {
	uc, l, repo := setupSettlePaymentTest(t)
	ids := hold(t, l)

	resp, err := uc.Execute(context.Background(), &Request{
		OrderRef:       "order-1",
		Outcome:        domain.PaymentFailed,
		ReservationIDs: ids,
	})
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Nil(t, resp)

	assert.Equal(t, 0, l.Reserved(deliveryKey()))
	assert.Equal(t, 0, l.Reserved(selfClaimKey()))
	assert.Empty(t, repo.saved)

	// повторный результат оплаты ничего не ломает
	_, err = uc.Execute(context.Background(), &Request{
		OrderRef:       "order-1",
		Outcome:        domain.PaymentFailed,
		ReservationIDs: ids,
	})
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Equal(t, 0, l.Reserved(deliveryKey()))
}

func TestExecute_HoldExpired(t *testing.T) {
	uc, l, repo := setupSettlePaymentTest(t)
	ids := hold(t, l)

	require.Equal(t, 2, l.ExpireHolds(context.Background(), today.Add(time.Hour), 15*time.Minute))

	_, err := uc.Execute(context.Background(), &Request{
		OrderRef:       "order-1",
		Outcome:        domain.PaymentSucceeded,
		ReservationIDs: ids,
	})
	assert.ErrorIs(t, err, ErrHoldExpired)
	assert.Empty(t, repo.saved)
}

func TestExecute_PartiallyExpiredReleasesRest(t *testing.T) {
	uc, l, _ := setupSettlePaymentTest(t)
	ids := hold(t, l)

	require.NoError(t, l.Release(context.Background(), ids[1], domain.ReleaseCancelled))

	_, err := uc.Execute(context.Background(), &Request{
		OrderRef:       "order-1",
		Outcome:        domain.PaymentSucceeded,
		ReservationIDs: ids,
	})
	assert.ErrorIs(t, err, ErrHoldExpired)
	assert.Equal(t, 0, l.Reserved(deliveryKey()))
}

func TestExecute_StorageFailureReleases(t *testing.T) {
	uc, l, repo := setupSettlePaymentTest(t)
	repo.failAfter = 1
	ids := hold(t, l)

	_, err := uc.Execute(context.Background(), &Request{
		OrderRef:       "order-1",
		Outcome:        domain.PaymentSucceeded,
		ReservationIDs: ids,
	})
	assert.ErrorIs(t, err, ErrInternal)

	assert.Equal(t, 0, l.Reserved(deliveryKey()))
	assert.Equal(t, 0, l.Reserved(selfClaimKey()))
	assert.Equal(t, domain.ReleaseRollback, repo.released[ids[0]])
}

func TestExecute_Validation(t *testing.T) {
	uc, _, _ := setupSettlePaymentTest(t)
	id := uuid.New()

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil request", req: nil},
		{name: "empty order ref", req: &Request{Outcome: domain.PaymentSucceeded, ReservationIDs: []uuid.UUID{id}}},
		{name: "unknown outcome", req: &Request{OrderRef: "order-1", Outcome: "pending", ReservationIDs: []uuid.UUID{id}}},
		{name: "no reservations", req: &Request{OrderRef: "order-1", Outcome: domain.PaymentSucceeded}},
		{name: "nil id", req: &Request{OrderRef: "order-1", Outcome: domain.PaymentSucceeded, ReservationIDs: []uuid.UUID{uuid.Nil}}},
		{name: "duplicate id", req: &Request{OrderRef: "order-1", Outcome: domain.PaymentSucceeded, ReservationIDs: []uuid.UUID{id, id}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_ForeignOrderRejected(t *testing.T) {
	uc, l, repo := setupSettlePaymentTest(t)
	ids := hold(t, l)

	for _, outcome := range []domain.PaymentOutcome{domain.PaymentFailed, domain.PaymentSucceeded} {
		_, err := uc.Execute(context.Background(), &Request{
			OrderRef:       "order-2",
			Outcome:        outcome,
			ReservationIDs: ids,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	// резервы order-1 не изменились
	for _, id := range ids {
		res, err := l.Get(id)
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationHeld, res.Status)
		assert.Equal(t, "order-1", res.OrderRef)
	}
	assert.Equal(t, 1, l.Reserved(deliveryKey()))
	assert.Empty(t, repo.saved)
}

func TestExecute_LateFailureMarksStoredReleased(t *testing.T) {
	uc, l, repo := setupSettlePaymentTest(t)
	ids := hold(t, l)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{OrderRef: "order-1", Outcome: domain.PaymentSucceeded, ReservationIDs: ids})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{OrderRef: "order-1", Outcome: domain.PaymentFailed, ReservationIDs: ids})
	assert.ErrorIs(t, err, ErrPaymentFailed)

	assert.Equal(t, 0, l.Reserved(deliveryKey()))
	assert.Equal(t, 0, l.Reserved(selfClaimKey()))
	for _, id := range ids {
		assert.Equal(t, domain.ReleasePaymentFailed, repo.released[id])
	}
}

package hold_slots

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/calendar"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/catalog"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/ledger"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/selection"
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
	thursday  = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc      *UseCase
	machine *selection.Machine
	ledger  *ledger.Ledger
}

func setupHoldSlotsTest(t *testing.T) fixture {
	t.Helper()

	cat, err := catalog.New(domain.ShopHours{Open: "08:00", Close: "20:00"}, map[domain.CatalogKey][]domain.TimeSlotDefinition{
		{BookingType: domain.BookingTypeNormal, FulfillmentPath: domain.FulfillmentDelivery}: {
			{TimeOfDay: "11:00", DisplayLabel: "11:00 AM", TotalCapacity: 1},
		},
		{BookingType: domain.BookingTypeNormal, FulfillmentPath: domain.FulfillmentSelfClaim}: {
			{TimeOfDay: "16:00", DisplayLabel: "4:00 PM", TotalCapacity: 1},
		},
	})
	require.NoError(t, err)

	cal, err := calendar.New(time.Sunday, 30)
	require.NoError(t, err)

	log, err := logger.NewWithWriter(io.Discard, "debug")
	require.NoError(t, err)

	clock := fixedClock{now: today}
	l := ledger.New(cat, cal, clock, nil, log)
	m := selection.New(cal, l, clock, nil, log)

	return fixture{
		uc:      NewUseCase(m, l, log),
		machine: m,
		ledger:  l,
	}
}

func (f fixture) order(t *testing.T, withSelfClaim bool) selection.Order {
	t.Helper()

	order, err := f.machine.SelectOrderBookingType(selection.NewOrder(withSelfClaim, true), domain.BookingTypeNormal)
	require.NoError(t, err)

	order.Delivery, err = f.machine.SelectDate(order.Delivery, wednesday)
	require.NoError(t, err)
	order.Delivery, err = f.machine.SelectTime(order.Delivery, "11:00")
	require.NoError(t, err)

	if withSelfClaim {
		order.SelfClaim, err = f.machine.SelectDate(order.SelfClaim, thursday)
		require.NoError(t, err)
		order.SelfClaim, err = f.machine.SelectTime(order.SelfClaim, "16:00")
		require.NoError(t, err)
	}

	return order
}

func deliveryKey() domain.CellKey {
	return domain.NewCellKey(wednesday, "11:00", domain.BookingTypeNormal, domain.FulfillmentDelivery)
}

func selfClaimKey() domain.CellKey {
	return domain.NewCellKey(thursday, "16:00", domain.BookingTypeNormal, domain.FulfillmentSelfClaim)
}

// --- Tests ---

func TestExecute_DeliveryOnly(t *testing.T) {
	f := setupHoldSlotsTest(t)

	resp, err := f.uc.Execute(context.Background(), &Request{OrderRef: "order-1", Order: f.order(t, false)})
	require.NoError(t, err)

	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, domain.ReservationHeld, resp.Reservations[0].Status)
	assert.Equal(t, "order-1", resp.Reservations[0].OrderRef)
	assert.Equal(t, domain.StageCommitted, resp.Order.Delivery.Stage)
	assert.Equal(t, 1, f.ledger.Reserved(deliveryKey()))
}

func TestExecute_DeliveryAndSelfClaim(t *testing.T) {
	f := setupHoldSlotsTest(t)

	resp, err := f.uc.Execute(context.Background(), &Request{OrderRef: "order-1", Order: f.order(t, true)})
	require.NoError(t, err)

	require.Len(t, resp.Reservations, 2)
	assert.Equal(t, domain.FulfillmentDelivery, resp.Reservations[0].FulfillmentPath)
	assert.Equal(t, domain.FulfillmentSelfClaim, resp.Reservations[1].FulfillmentPath)
	assert.Equal(t, domain.StageCommitted, resp.Order.Delivery.Stage)
	assert.Equal(t, domain.StageCommitted, resp.Order.SelfClaim.Stage)
	assert.Equal(t, 1, f.ledger.Reserved(selfClaimKey()))
}

func TestExecute_SelfClaimTakenRollsBackDelivery(t *testing.T) {
	f := setupHoldSlotsTest(t)
	ctx := context.Background()
	order := f.order(t, true)

	// другой клиент успел занять самовывоз
	_, err := f.ledger.Reserve(ctx, selfClaimKey(), 1, "other")
	require.NoError(t, err)

	resp, err := f.uc.Execute(ctx, &Request{OrderRef: "order-1", Order: order})
	assert.ErrorIs(t, err, ErrSlotTaken)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Reservations)

	assert.Equal(t, 0, f.ledger.Reserved(deliveryKey()))
	assert.Equal(t, domain.StageDateChosen, resp.Order.Delivery.Stage)
	assert.False(t, resp.Order.Delivery.HasTime())
	assert.Equal(t, domain.StageDateChosen, resp.Order.SelfClaim.Stage)
	assert.Equal(t, thursday, resp.Order.SelfClaim.SelectedDate)
}

func TestExecute_DeliveryTaken(t *testing.T) {
	f := setupHoldSlotsTest(t)
	ctx := context.Background()
	order := f.order(t, false)

	_, err := f.ledger.Reserve(ctx, deliveryKey(), 1, "other")
	require.NoError(t, err)

	resp, err := f.uc.Execute(ctx, &Request{OrderRef: "order-1", Order: order})
	assert.ErrorIs(t, err, ErrSlotTaken)
	require.NotNil(t, resp)
	assert.Equal(t, domain.StageDateChosen, resp.Order.Delivery.Stage)
	assert.Equal(t, 1, f.ledger.Reserved(deliveryKey()))
}

func TestExecute_Validation(t *testing.T) {
	f := setupHoldSlotsTest(t)
	ready := f.order(t, true)

	noSelfClaimTime := ready
	noSelfClaimTime.SelfClaim = noSelfClaimTime.SelfClaim.Cleared()

	mixedTypes := ready
	mixedTypes.SelfClaim.BookingType = domain.BookingTypeRush

	noDeliveryTime := ready
	noDeliveryTime.Delivery.Stage = domain.StageDateChosen
	noDeliveryTime.Delivery.SelectedTime = ""

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil request", req: nil},
		{name: "empty order ref", req: &Request{Order: ready}},
		{name: "delivery time missing", req: &Request{OrderRef: "o", Order: noDeliveryTime}},
		{name: "self-claim time missing", req: &Request{OrderRef: "o", Order: noSelfClaimTime}},
		{name: "shared type mismatch", req: &Request{OrderRef: "o", Order: mixedTypes}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, resp)
		})
	}

	assert.Equal(t, 0, f.ledger.Reserved(deliveryKey()))
}

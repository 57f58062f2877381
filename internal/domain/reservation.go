package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// CellKey identifies one capacity cell of the reservation ledger
type CellKey struct {
	Date            time.Time // midnight, no time component
	TimeOfDay       types.TimeString
	BookingType     BookingType
	FulfillmentPath FulfillmentPath
}

// NewCellKey normalizes the date so that keys built from any time of day compare equal
func NewCellKey(date time.Time, timeOfDay types.TimeString, bookingType BookingType, path FulfillmentPath) CellKey {
	y, m, d := date.Date()
	return CellKey{
		Date:            time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TimeOfDay:       timeOfDay,
		BookingType:     bookingType,
		FulfillmentPath: path,
	}
}

// CatalogKey returns the catalog table this cell belongs to
func (k CellKey) CatalogKey() CatalogKey {
	return CatalogKey{BookingType: k.BookingType, FulfillmentPath: k.FulfillmentPath}
}

func (k CellKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Date.Format(DateFormat), k.TimeOfDay, k.BookingType, k.FulfillmentPath)
}

// ReservationStatus represents the lifecycle of a reservation
type ReservationStatus string

const (
	ReservationHeld      ReservationStatus = "held"      // capacity taken, payment pending
	ReservationConfirmed ReservationStatus = "confirmed" // payment succeeded
	ReservationReleased  ReservationStatus = "released"  // capacity returned
)

// Reservation is a committed consumption of slot capacity
type Reservation struct {
	ID              uuid.UUID
	Date            time.Time
	TimeOfDay       types.TimeString
	BookingType     BookingType
	FulfillmentPath FulfillmentPath
	Count           int
	Status          ReservationStatus
	OrderRef        string
	CreatedAt       time.Time
	ReleasedAt      *time.Time
}

// Key returns the ledger cell of the reservation
func (r *Reservation) Key() CellKey {
	return NewCellKey(r.Date, r.TimeOfDay, r.BookingType, r.FulfillmentPath)
}

// IsActive returns true while the reservation consumes capacity
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationHeld || r.Status == ReservationConfirmed
}

// IsHeld returns true if the reservation waits for payment
func (r *Reservation) IsHeld() bool {
	return r.Status == ReservationHeld
}

// ReleaseReason explains why capacity was returned
type ReleaseReason string

const (
	ReleaseCancelled     ReleaseReason = "cancelled"
	ReleaseExpired       ReleaseReason = "expired"
	ReleasePaymentFailed ReleaseReason = "payment_failed"
	ReleaseRollback      ReleaseReason = "rollback"
)

// PaymentOutcome is the pass/fail result reported by the external payment step
type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "success"
	PaymentFailed    PaymentOutcome = "failure"
)

// IsValid returns true for a known payment outcome
func (o PaymentOutcome) IsValid() bool {
	return o == PaymentSucceeded || o == PaymentFailed
}

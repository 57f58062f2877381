package domain

import "errors"

var (
	// ErrConfig invalid static configuration or input outside of the catalog. Never retried
	ErrConfig = errors.New("config error")

	// ErrInvalidTransition selection state machine was called out of order
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDateUnavailable the date is closed or in the past
	ErrDateUnavailable = errors.New("date unavailable")

	// ErrSlotUnavailable the time slot has no remaining capacity
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrCapacityExceeded reservation lost the race for the last unit of capacity
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrReservationNotFound reservation handle is unknown to the ledger
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrReservationReleased reservation capacity was already returned (expired or cancelled)
	ErrReservationReleased = errors.New("reservation already released")
)

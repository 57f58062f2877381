package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// discardStore используется без базы данных: резервы живут только в ledger
type discardStore struct{}

func (discardStore) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	return res, nil
}

func (discardStore) MarkReleased(context.Context, uuid.UUID, time.Time, domain.ReleaseReason) error {
	return nil
}

func (discardStore) GetActiveFrom(context.Context, time.Time) ([]*domain.Reservation, error) {
	return nil, nil
}

package hold_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// SelectionMachine машина выбора слотов
type SelectionMachine interface {
	Commit(ctx context.Context, state domain.SelectionState, orderRef string) (domain.SelectionState, *domain.Reservation, error)
	RevertCommit(state domain.SelectionState) (domain.SelectionState, error)
}

// Ledger учет вместимости слотов
type Ledger interface {
	Release(ctx context.Context, id uuid.UUID, reason domain.ReleaseReason) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

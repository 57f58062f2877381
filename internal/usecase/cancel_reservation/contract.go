package cancel_reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// Ledger учет вместимости слотов
type Ledger interface {
	Get(id uuid.UUID) (*domain.Reservation, error)
	Withdraw(ctx context.Context, id uuid.UUID, reason domain.ReleaseReason) (domain.ReservationStatus, error)
}

// ReservationRepository интерфейс репозитория резервов
type ReservationRepository interface {
	MarkReleased(ctx context.Context, id uuid.UUID, releasedAt time.Time, reason domain.ReleaseReason) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

package selection

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// Calendar правило доступности дат
type Calendar interface {
	IsBookable(date, today time.Time) bool
	InHorizon(date, today time.Time) bool
}

// Ledger учет вместимости слотов
type Ledger interface {
	RemainingCapacity(key domain.CellKey) (int, error)
	Reserve(ctx context.Context, key domain.CellKey, count int, orderRef string) (*domain.Reservation, error)
}

// Metrics сбор метрик переходов
type Metrics interface {
	ObserveTransition(transition, result string)
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

type noopMetrics struct{}

func (noopMetrics) ObserveTransition(string, string) {}

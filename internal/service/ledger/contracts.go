package ledger

import (
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// Catalog источник вместимости слотов
type Catalog interface {
	Definition(bookingType domain.BookingType, path domain.FulfillmentPath, timeOfDay types.TimeString) (domain.TimeSlotDefinition, error)
}

// Calendar ограничивает даты горизонтом бронирования
type Calendar interface {
	InHorizon(date, today time.Time) bool
}

// Metrics сбор метрик резервирования
type Metrics interface {
	ObserveReservation(bookingType, path, result string)
	ObserveConfirmation()
	ObserveRelease(reason string, wasHeld bool)
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

func (noopMetrics) ObserveReservation(string, string, string) {}
func (noopMetrics) ObserveConfirmation()                      {}
func (noopMetrics) ObserveRelease(string, bool)               {}

package availability

import (
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// Calendar окно бронирования
type Calendar interface {
	ComputeWindow(today time.Time) []domain.CalendarDay
	IsBookable(date, today time.Time) bool
	InHorizon(date, today time.Time) bool
}

// Catalog таблицы слотов
type Catalog interface {
	DefinitionsFor(bookingType domain.BookingType, path domain.FulfillmentPath) ([]domain.TimeSlotDefinition, error)
	Definition(bookingType domain.BookingType, path domain.FulfillmentPath, timeOfDay types.TimeString) (domain.TimeSlotDefinition, error)
}

// Ledger текущая занятость слотов
type Ledger interface {
	Reserved(key domain.CellKey) int
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

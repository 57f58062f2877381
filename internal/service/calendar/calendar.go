package calendar

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// Window вычисляет, какие даты доступны для бронирования.
// Все методы - чистые функции от (date, today, closedWeekday), без скрытого состояния и без wall-clock
type Window struct {
	closedWeekday time.Weekday
	horizonDays   int
}

// New создает окно с выходным днем и горизонтом в днях
func New(closedWeekday time.Weekday, horizonDays int) (*Window, error) {
	if closedWeekday < time.Sunday || closedWeekday > time.Saturday {
		return nil, fmt.Errorf("%w: invalid closed weekday %d", domain.ErrConfig, closedWeekday)
	}
	if err := validateHorizon(horizonDays); err != nil {
		return nil, err
	}

	return &Window{
		closedWeekday: closedWeekday,
		horizonDays:   horizonDays,
	}, nil
}

// ClosedWeekday возвращает выходной день магазина
func (w *Window) ClosedWeekday() time.Weekday {
	return w.closedWeekday
}

// HorizonDays возвращает горизонт окна в днях
func (w *Window) HorizonDays() int {
	return w.horizonDays
}

// ComputeWindow возвращает дни [today, today+horizonDays] по возрастанию с настроенным горизонтом
func (w *Window) ComputeWindow(today time.Time) []domain.CalendarDay {
	days, _ := w.ComputeWindowFor(today, w.horizonDays)
	return days
}

// ComputeWindowFor возвращает дни [today, today+horizonDays] включительно, по одному на дату
func (w *Window) ComputeWindowFor(today time.Time, horizonDays int) ([]domain.CalendarDay, error) {
	if err := validateHorizon(horizonDays); err != nil {
		return nil, err
	}

	start := domain.DateOnly(today)
	days := make([]domain.CalendarDay, 0, horizonDays+1)

	for i := 0; i <= horizonDays; i++ {
		// AddDate, а не Add(24h): корректно при переходе на летнее время
		date := start.AddDate(0, 0, i)
		days = append(days, domain.CalendarDay{
			Date:   date,
			IsOpen: w.IsBookable(date, today),
		})
	}

	return days, nil
}

// IsBookable false для дат раньше today (сравниваются только даты) и для выходного дня недели
func (w *Window) IsBookable(date, today time.Time) bool {
	if domain.DateBefore(date, today) {
		return false
	}
	return date.Weekday() != w.closedWeekday
}

// InHorizon проверяет, что дата попадает в [today, today+horizonDays]
func (w *Window) InHorizon(date, today time.Time) bool {
	if domain.DateBefore(date, today) {
		return false
	}
	last := domain.DateOnly(today).AddDate(0, 0, w.horizonDays)
	return !domain.DateBefore(last, date)
}

func validateHorizon(horizonDays int) error {
	if horizonDays < domain.MinHorizonDays || horizonDays > domain.MaxHorizonDays {
		return fmt.Errorf("%w: horizon must be between %d and %d days, got %d",
			domain.ErrConfig, domain.MinHorizonDays, domain.MaxHorizonDays, horizonDays)
	}
	return nil
}

// Package availability отвечает на вопрос "можно ли сейчас выбрать эту дату или время".
// View не хранит состояния: каждый вызов заново читает календарь и ledger
package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// View производное представление доступности
type View struct {
	calendar Calendar
	catalog  Catalog
	ledger   Ledger
	clock    TimeProvider
}

// New создает View. clock может быть nil
func New(calendar Calendar, catalog Catalog, ledger Ledger, clock TimeProvider) *View {
	if clock == nil {
		clock = &RealTimeProvider{}
	}
	return &View{
		calendar: calendar,
		catalog:  catalog,
		ledger:   ledger,
		clock:    clock,
	}
}

// DateStatus статус даты для текущего выбора. Если тип бронирования выбран,
// дата без единого свободного слота считается недоступной
func (v *View) DateStatus(state domain.SelectionState, date time.Time) (domain.DateStatus, error) {
	return v.dateStatus(state, date, v.clock.Now())
}

// TimeStatus статус времени на выбранную дату
func (v *View) TimeStatus(state domain.SelectionState, timeOfDay types.TimeString) (domain.TimeStatus, error) {
	if !state.HasBookingType() || !state.HasDate() {
		return "", fmt.Errorf("%w: time status needs booking type and date", domain.ErrInvalidTransition)
	}

	def, err := v.catalog.Definition(state.BookingType, state.FulfillmentPath, timeOfDay)
	if err != nil {
		return "", err
	}

	slot := v.slot(state, def)
	return slot.Status, nil
}

// Days окно бронирования со статусом каждого дня
func (v *View) Days(state domain.SelectionState) ([]domain.AvailableDay, error) {
	today := v.clock.Now()
	window := v.calendar.ComputeWindow(today)

	days := make([]domain.AvailableDay, 0, len(window))
	for _, day := range window {
		status, err := v.dateStatus(state, day.Date, today)
		if err != nil {
			return nil, err
		}
		days = append(days, domain.AvailableDay{CalendarDay: day, Status: status})
	}

	return days, nil
}

// Slots слоты выбранной даты с остатком вместимости, по возрастанию времени
func (v *View) Slots(state domain.SelectionState) ([]domain.AvailableSlot, error) {
	if !state.HasBookingType() || !state.HasDate() {
		return nil, fmt.Errorf("%w: slots need booking type and date", domain.ErrInvalidTransition)
	}

	defs, err := v.catalog.DefinitionsFor(state.BookingType, state.FulfillmentPath)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.AvailableSlot, 0, len(defs))
	for _, def := range defs {
		slots = append(slots, v.slot(state, def))
	}

	return slots, nil
}

func (v *View) dateStatus(state domain.SelectionState, date, today time.Time) (domain.DateStatus, error) {
	if !v.calendar.IsBookable(date, today) || !v.calendar.InHorizon(date, today) {
		return domain.DateUnavailable, nil
	}
	if state.HasDate() && domain.SameDay(state.SelectedDate, date) {
		return domain.DateSelected, nil
	}
	if !state.HasBookingType() {
		return domain.DateAvailable, nil
	}

	defs, err := v.catalog.DefinitionsFor(state.BookingType, state.FulfillmentPath)
	if err != nil {
		return "", err
	}

	day := state
	day.SelectedDate = date
	for _, def := range defs {
		day.SelectedTime = def.TimeOfDay
		if v.remaining(day.CellKey(), def) > 0 {
			return domain.DateAvailable, nil
		}
	}

	return domain.DateUnavailable, nil
}

// slot считает остаток ячейки выбранной даты
func (v *View) slot(state domain.SelectionState, def domain.TimeSlotDefinition) domain.AvailableSlot {
	cell := state
	cell.SelectedTime = def.TimeOfDay
	available := v.remaining(cell.CellKey(), def)

	status := domain.TimeAvailable
	switch {
	case state.HasTime() && state.SelectedTime == def.TimeOfDay:
		status = domain.TimeSelected
	case available == 0:
		status = domain.TimeFull
	}

	return domain.AvailableSlot{
		TimeOfDay:      def.TimeOfDay,
		DisplayLabel:   def.DisplayLabel,
		AvailableSpots: available,
		TotalSpots:     def.TotalCapacity,
		Status:         status,
	}
}

func (v *View) remaining(key domain.CellKey, def domain.TimeSlotDefinition) int {
	available := def.TotalCapacity - v.ledger.Reserved(key)
	if available < 0 {
		available = 0
	}
	return available
}

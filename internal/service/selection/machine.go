// Package selection машина выбора типа, даты и времени бронирования.
// Машина не хранит состояние сессии: каждый переход принимает domain.SelectionState и возвращает новое
package selection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/metrics"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// Названия переходов для метрик и логов
const (
	TransitionSelectBookingType = "select_booking_type"
	TransitionSelectDate        = "select_date"
	TransitionSelectTime        = "select_time"
	TransitionCommit            = "commit"
	TransitionRevertCommit      = "revert_commit"
	TransitionReset             = "reset"
)

// Machine переходы SelectionState, общие для всех сессий
type Machine struct {
	calendar Calendar
	ledger   Ledger
	clock    TimeProvider
	metrics  Metrics
	logger   Logger
}

// New создает машину выбора. clock и m могут быть nil
func New(calendar Calendar, ledger Ledger, clock TimeProvider, m Metrics, logger Logger) *Machine {
	if clock == nil {
		clock = &RealTimeProvider{}
	}
	if m == nil {
		m = noopMetrics{}
	}
	return &Machine{
		calendar: calendar,
		ledger:   ledger,
		clock:    clock,
		metrics:  m,
		logger:   logger,
	}
}

// SelectBookingType выбирает тип бронирования.
// Повторный выбор того же типа сбрасывает выбор целиком, новый тип очищает дату и время
func (m *Machine) SelectBookingType(state domain.SelectionState, bookingType domain.BookingType) (domain.SelectionState, error) {
	if !bookingType.IsValid() {
		err := fmt.Errorf("%w: unknown booking type %q", domain.ErrConfig, bookingType)
		m.observe(TransitionSelectBookingType, err)
		return state, err
	}
	if state.Stage == domain.StageCommitted {
		err := fmt.Errorf("%w: selection is committed, reset or revert it first", domain.ErrInvalidTransition)
		m.observe(TransitionSelectBookingType, err)
		return state, err
	}

	if state.BookingType == bookingType {
		m.observe(TransitionSelectBookingType, nil)
		return state.Cleared(), nil
	}

	next := state.Cleared()
	next.BookingType = bookingType
	next.Stage = domain.StageTypeChosen

	m.observe(TransitionSelectBookingType, nil)
	return next, nil
}

// SelectDate выбирает дату и очищает выбранное время
func (m *Machine) SelectDate(state domain.SelectionState, date time.Time) (domain.SelectionState, error) {
	if !state.HasBookingType() || state.Stage == domain.StageCommitted {
		err := fmt.Errorf("%w: select_date from stage %s", domain.ErrInvalidTransition, stageOf(state))
		m.observe(TransitionSelectDate, err)
		return state, err
	}

	today := m.clock.Now()
	if !m.calendar.IsBookable(date, today) || !m.calendar.InHorizon(date, today) {
		m.logger.Warn("SelectDate: date=%s is not bookable, today=%s",
			date.Format(domain.DateFormat), today.Format(domain.DateFormat))
		err := fmt.Errorf("%w: %s", domain.ErrDateUnavailable, date.Format(domain.DateFormat))
		m.observe(TransitionSelectDate, err)
		return state, err
	}

	next := state
	next.SelectedDate = calendarDate(date)
	next.SelectedTime = ""
	next.Stage = domain.StageDateChosen

	m.observe(TransitionSelectDate, nil)
	return next, nil
}

// SelectTime выбирает время, если у слота осталась вместимость.
// Положительный остаток здесь - подсказка, окончательное решение принимает Commit
func (m *Machine) SelectTime(state domain.SelectionState, timeOfDay types.TimeString) (domain.SelectionState, error) {
	if !state.HasDate() || state.Stage == domain.StageCommitted {
		err := fmt.Errorf("%w: select_time from stage %s", domain.ErrInvalidTransition, stageOf(state))
		m.observe(TransitionSelectTime, err)
		return state, err
	}

	// дата могла стать прошедшей, пока клиент выбирал время
	today := m.clock.Now()
	if !m.calendar.IsBookable(state.SelectedDate, today) {
		err := fmt.Errorf("%w: %s", domain.ErrDateUnavailable, state.SelectedDate.Format(domain.DateFormat))
		m.observe(TransitionSelectTime, err)
		return state, err
	}

	next := state
	next.SelectedTime = timeOfDay

	remaining, err := m.ledger.RemainingCapacity(next.CellKey())
	if err != nil {
		m.logger.Warn("SelectTime: remaining capacity for cell=%s: %v", next.CellKey(), err)
		m.observe(TransitionSelectTime, err)
		return state, err
	}
	if remaining < domain.DefaultReserveCount {
		err := fmt.Errorf("%w: %s is full", domain.ErrSlotUnavailable, next.CellKey())
		m.observe(TransitionSelectTime, err)
		return state, err
	}

	next.Stage = domain.StageTimeChosen

	m.observe(TransitionSelectTime, nil)
	return next, nil
}

// Commit резервирует выбранную ячейку. При domain.ErrCapacityExceeded слот успели занять:
// возвращается состояние DateChosen без времени, чтобы клиент выбрал другое
func (m *Machine) Commit(ctx context.Context, state domain.SelectionState, orderRef string) (domain.SelectionState, *domain.Reservation, error) {
	if state.Stage != domain.StageTimeChosen {
		err := fmt.Errorf("%w: commit from stage %s", domain.ErrInvalidTransition, stageOf(state))
		m.observe(TransitionCommit, err)
		return state, nil, err
	}

	key := state.CellKey()
	reservation, err := m.ledger.Reserve(ctx, key, domain.DefaultReserveCount, orderRef)
	if err != nil {
		m.observe(TransitionCommit, err)
		if errors.Is(err, domain.ErrCapacityExceeded) {
			m.logger.Warn("Commit: slot taken concurrently, cell=%s, order=%s", key, orderRef)
			return withoutTime(state), nil, err
		}
		m.logger.Error("Commit: failed to reserve cell=%s, order=%s: %v", key, orderRef, err)
		return state, nil, err
	}

	next := state
	next.Stage = domain.StageCommitted

	m.observe(TransitionCommit, nil)
	m.logger.Info("Commit: reservation id=%s, cell=%s, order=%s", reservation.ID, key, orderRef)

	return next, reservation, nil
}

// RevertCommit возвращает выбор после неудачной оплаты в DateChosen. Резерв освобождает вызывающий
func (m *Machine) RevertCommit(state domain.SelectionState) (domain.SelectionState, error) {
	if state.Stage != domain.StageCommitted {
		err := fmt.Errorf("%w: revert_commit from stage %s", domain.ErrInvalidTransition, stageOf(state))
		m.observe(TransitionRevertCommit, err)
		return state, err
	}

	m.observe(TransitionRevertCommit, nil)
	return withoutTime(state), nil
}

// Reset очищает выбор из любого состояния
func (m *Machine) Reset(state domain.SelectionState) domain.SelectionState {
	m.observe(TransitionReset, nil)
	return state.Cleared()
}

func (m *Machine) observe(transition string, err error) {
	m.metrics.ObserveTransition(transition, resultOf(err))
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrCapacityExceeded):
		return metrics.ResultCapacityExceeded
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDateUnavailable),
		errors.Is(err, domain.ErrSlotUnavailable):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

func withoutTime(state domain.SelectionState) domain.SelectionState {
	state.SelectedTime = ""
	state.Stage = domain.StageDateChosen
	return state
}

func stageOf(state domain.SelectionState) domain.SelectionStage {
	if state.Stage == "" {
		return domain.StageEmpty
	}
	return state.Stage
}

func calendarDate(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/metrics"
)

// cell занятая вместимость одного (date, time, booking type, fulfillment path).
// Ячейки создаются лениво и никогда не удаляются
type cell struct {
	mu       sync.Mutex
	reserved int
}

// holding запись о выданном резерве. reservation защищена мьютексом своей ячейки
type holding struct {
	cell        *cell
	reservation domain.Reservation
}

// Ledger учет занятой вместимости слотов.
// Инвариант: 0 <= reserved <= totalCapacity для каждой ячейки в любой момент.
// Проверка и инкремент выполняются под мьютексом ячейки, поэтому конкурентные
// резервирования разных ячеек не блокируют друг друга
type Ledger struct {
	catalog  Catalog
	calendar Calendar
	clock    TimeProvider
	metrics  Metrics
	logger   Logger

	cellsMu sync.RWMutex
	cells   map[domain.CellKey]*cell

	holdsMu sync.RWMutex
	holds   map[uuid.UUID]*holding
	// pruned id -> дата резерва, забытого Prune. Повторный Release такого резерва остается no-op
	pruned  map[uuid.UUID]time.Time
}

// New создает пустой журнал резервов
func New(catalog Catalog, calendar Calendar, clock TimeProvider, m Metrics, logger Logger) *Ledger {
	if clock == nil {
		clock = &RealTimeProvider{}
	}
	if m == nil {
		m = noopMetrics{}
	}

	return &Ledger{
		catalog:  catalog,
		calendar: calendar,
		clock:    clock,
		metrics:  m,
		logger:   logger,
		cells:    make(map[domain.CellKey]*cell),
		holds:    make(map[uuid.UUID]*holding),
		pruned:   make(map[uuid.UUID]time.Time),
	}
}

// RemainingCapacity возвращает totalCapacity - reserved. Отсутствующая ячейка означает reserved = 0.
// Значение носит рекомендательный характер: авторитетный ответ дает только Reserve
func (l *Ledger) RemainingCapacity(key domain.CellKey) (int, error) {
	def, err := l.definition(key)
	if err != nil {
		return 0, err
	}

	remaining := def.TotalCapacity - l.Reserved(key)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reserved возвращает занятую вместимость ячейки
func (l *Ledger) Reserved(key domain.CellKey) int {
	key = normalize(key)

	l.cellsMu.RLock()
	c, ok := l.cells[key]
	l.cellsMu.RUnlock()
	if !ok {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reserved
}

// Reserve атомарно проверяет, что свободно не меньше count, и занимает вместимость.
// При нехватке возвращает domain.ErrCapacityExceeded и не меняет состояние
func (l *Ledger) Reserve(ctx context.Context, key domain.CellKey, count int, orderRef string) (*domain.Reservation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	key = normalize(key)
	if count < 1 {
		return nil, fmt.Errorf("%w: reserve count must be positive, got %d", domain.ErrConfig, count)
	}

	def, err := l.definition(key)
	if err != nil {
		l.metrics.ObserveReservation(string(key.BookingType), string(key.FulfillmentPath), metrics.ResultError)
		return nil, err
	}

	c := l.cellFor(key)
	now := l.clock.Now()

	c.mu.Lock()
	if c.reserved+count > def.TotalCapacity {
		reserved := c.reserved
		c.mu.Unlock()

		l.metrics.ObserveReservation(string(key.BookingType), string(key.FulfillmentPath), metrics.ResultCapacityExceeded)
		l.logger.Warn("Reserve: capacity exceeded, cell=%s, requested=%d, reserved=%d/%d",
			key, count, reserved, def.TotalCapacity)
		return nil, fmt.Errorf("%w: cell %s has %d of %d spots left, requested %d",
			domain.ErrCapacityExceeded, key, def.TotalCapacity-reserved, def.TotalCapacity, count)
	}

	c.reserved += count
	h := &holding{
		cell: c,
		reservation: domain.Reservation{
			ID:              uuid.New(),
			Date:            key.Date,
			TimeOfDay:       key.TimeOfDay,
			BookingType:     key.BookingType,
			FulfillmentPath: key.FulfillmentPath,
			Count:           count,
			Status:          domain.ReservationHeld,
			OrderRef:        orderRef,
			CreatedAt:       now,
		},
	}
	reserved := c.reserved
	result := h.reservation

	// порядок блокировок: cell.mu -> holdsMu
	l.holdsMu.Lock()
	l.holds[result.ID] = h
	l.holdsMu.Unlock()
	c.mu.Unlock()

	l.metrics.ObserveReservation(string(key.BookingType), string(key.FulfillmentPath), metrics.ResultSuccess)
	l.logger.Info("Reserve: reservation id=%s, cell=%s, count=%d, reserved=%d/%d",
		result.ID, key, count, reserved, def.TotalCapacity)

	return &result, nil
}

// Release возвращает вместимость резерва. Повторный вызов для того же резерва - no-op
func (l *Ledger) Release(ctx context.Context, id uuid.UUID, reason domain.ReleaseReason) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	_, err := l.Withdraw(ctx, id, reason)
	return err
}

// Withdraw освобождает резерв как Release и возвращает статус, который был у резерва до вызова.
// По нему вызывающий понимает, нужно ли помечать освобожденным сохраненный (confirmed) резерв.
// Для резерва, забытого Prune, возвращает ReservationReleased
func (l *Ledger) Withdraw(ctx context.Context, id uuid.UUID, reason domain.ReleaseReason) (domain.ReservationStatus, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	prev, _, err := l.release(id, reason, false)
	return prev, err
}

// Confirm помечает удерживаемый резерв как оплаченный. Повторное подтверждение идемпотентно
func (l *Ledger) Confirm(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	h, err := l.holding(id)
	if err != nil {
		return nil, err
	}

	h.cell.mu.Lock()
	switch h.reservation.Status {
	case domain.ReservationReleased:
		h.cell.mu.Unlock()
		l.logger.Warn("Confirm: reservation id=%s was already released", id)
		return nil, fmt.Errorf("%w: id=%s", domain.ErrReservationReleased, id)
	case domain.ReservationConfirmed:
		result := h.reservation
		h.cell.mu.Unlock()
		return &result, nil
	}

	h.reservation.Status = domain.ReservationConfirmed
	result := h.reservation
	h.cell.mu.Unlock()

	l.metrics.ObserveConfirmation()
	l.logger.Info("Confirm: reservation id=%s confirmed, cell=%s", id, result.Key())

	return &result, nil
}

// Get возвращает снимок резерва
func (l *Ledger) Get(id uuid.UUID) (*domain.Reservation, error) {
	h, err := l.holding(id)
	if err != nil {
		return nil, err
	}

	h.cell.mu.Lock()
	result := h.reservation
	h.cell.mu.Unlock()

	return &result, nil
}

// release возвращает вместимость под мьютексом ячейки. onlyHeld - не трогать подтвержденные резервы.
// Возвращает статус резерва до вызова и true, если вместимость действительно вернулась
func (l *Ledger) release(id uuid.UUID, reason domain.ReleaseReason, onlyHeld bool) (domain.ReservationStatus, bool, error) {
	h, err := l.holding(id)
	if err != nil {
		if l.wasPruned(id) {
			l.logger.Info("Release: reservation id=%s was pruned, skipping", id)
			return domain.ReservationReleased, false, nil
		}
		l.logger.Warn("Release: reservation id=%s not found", id)
		return "", false, err
	}

	h.cell.mu.Lock()
	prev := h.reservation.Status
	if prev == domain.ReservationReleased {
		h.cell.mu.Unlock()
		l.logger.Info("Release: reservation id=%s already released, skipping", id)
		return prev, false, nil
	}
	if onlyHeld && prev != domain.ReservationHeld {
		h.cell.mu.Unlock()
		return prev, false, nil
	}

	wasHeld := prev == domain.ReservationHeld
	now := l.clock.Now()

	h.cell.reserved -= h.reservation.Count
	if h.cell.reserved < 0 {
		// недостижимо при корректном учете; не даем инварианту сломаться
		l.logger.Error("Release: negative reserved count for cell=%s, resetting to 0", h.reservation.Key())
		h.cell.reserved = 0
	}
	h.reservation.Status = domain.ReservationReleased
	h.reservation.ReleasedAt = &now
	key := h.reservation.Key()
	reserved := h.cell.reserved
	h.cell.mu.Unlock()

	l.metrics.ObserveRelease(string(reason), wasHeld)
	l.logger.Info("Release: reservation id=%s released, reason=%s, cell=%s, reserved=%d",
		id, reason, key, reserved)

	return prev, true, nil
}

func (l *Ledger) wasPruned(id uuid.UUID) bool {
	l.holdsMu.RLock()
	defer l.holdsMu.RUnlock()
	_, ok := l.pruned[id]
	return ok
}

func (l *Ledger) holding(id uuid.UUID) (*holding, error) {
	l.holdsMu.RLock()
	h, ok := l.holds[id]
	l.holdsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", domain.ErrReservationNotFound, id)
	}
	return h, nil
}

func (l *Ledger) cellFor(key domain.CellKey) *cell {
	l.cellsMu.RLock()
	c, ok := l.cells[key]
	l.cellsMu.RUnlock()
	if ok {
		return c
	}

	l.cellsMu.Lock()
	defer l.cellsMu.Unlock()

	// ячейку мог создать конкурентный вызов между RUnlock и Lock
	if c, ok = l.cells[key]; ok {
		return c
	}
	c = &cell{}
	l.cells[key] = c
	return c
}

func (l *Ledger) definition(key domain.CellKey) (domain.TimeSlotDefinition, error) {
	if !key.BookingType.IsValid() || !key.FulfillmentPath.IsValid() {
		return domain.TimeSlotDefinition{}, fmt.Errorf("%w: unknown cell %s", domain.ErrConfig, key)
	}

	today := l.clock.Now()
	if !l.calendar.InHorizon(key.Date, today) {
		return domain.TimeSlotDefinition{}, fmt.Errorf("%w: date %s is outside of the booking horizon",
			domain.ErrConfig, key.Date.Format(domain.DateFormat))
	}

	return l.catalog.Definition(key.BookingType, key.FulfillmentPath, key.TimeOfDay)
}

func normalize(key domain.CellKey) domain.CellKey {
	return domain.NewCellKey(key.Date, key.TimeOfDay, key.BookingType, key.FulfillmentPath)
}

// snapshot возвращает копии всех резервов (для фоновых задач)
func (l *Ledger) snapshot() []domain.Reservation {
	l.holdsMu.RLock()
	holds := make([]*holding, 0, len(l.holds))
	for _, h := range l.holds {
		holds = append(holds, h)
	}
	l.holdsMu.RUnlock()

	out := make([]domain.Reservation, 0, len(holds))
	for _, h := range holds {
		h.cell.mu.Lock()
		out = append(out, h.reservation)
		h.cell.mu.Unlock()
	}
	return out
}

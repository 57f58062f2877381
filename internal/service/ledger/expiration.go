package ledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

const prunedRetention = 7 * 24 * time.Hour

// ExpireHolds освобождает удерживаемые резервы старше ttl, для которых не пришел результат оплаты.
// Подтвержденные резервы не трогает, даже если подтверждение гонится с истечением
func (l *Ledger) ExpireHolds(ctx context.Context, now time.Time, ttl time.Duration) int {
	expired := 0

	for _, r := range l.snapshot() {
		if ctx.Err() != nil {
			break
		}
		if !r.IsHeld() || now.Sub(r.CreatedAt) < ttl {
			continue
		}

		_, released, err := l.release(r.ID, domain.ReleaseExpired, true)
		if err != nil {
			l.logger.Error("ExpireHolds: failed to release reservation id=%s: %v", r.ID, err)
			continue
		}
		if released {
			expired++
		}
	}

	if expired > 0 {
		l.logger.Info("ExpireHolds: released %d expired holds (ttl=%s)", expired, ttl)
	}
	return expired
}

// Prune забывает резервы на даты раньше today. Ячейки при этом не удаляются.
// id забытых резервов помнятся еще prunedRetention, чтобы запоздалый Release оставался no-op
func (l *Ledger) Prune(today time.Time) int {
	l.holdsMu.Lock()
	defer l.holdsMu.Unlock()

	pruned := 0
	for id, h := range l.holds {
		// Date неизменяема после создания резерва, мьютекс ячейки не нужен
		if domain.DateBefore(h.reservation.Date, today) {
			delete(l.holds, id)
			l.pruned[id] = h.reservation.Date
			pruned++
		}
	}

	forgetBefore := today.Add(-prunedRetention)
	for id, date := range l.pruned {
		if domain.DateBefore(date, forgetBefore) {
			delete(l.pruned, id)
		}
	}

	if pruned > 0 {
		l.logger.Info("Prune: forgot %d reservations before %s", pruned, today.Format(domain.DateFormat))
	}
	return pruned
}

// RunExpirationWorker блокируется до отмены ctx, периодически освобождая просроченные резервы
func (l *Ledger) RunExpirationWorker(ctx context.Context, interval, ttl time.Duration) error {
	l.logger.Info("ExpirationWorker: started, interval=%s, ttl=%s", interval, ttl)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("ExpirationWorker: stopped")
			return nil
		case <-ticker.C:
			now := l.clock.Now()
			l.ExpireHolds(ctx, now, ttl)
			l.Prune(now)
		}
	}
}

// Restore загружает ранее сохраненные активные резервы при старте.
// Резервы, которые нарушили бы reserved <= totalCapacity (например, после уменьшения вместимости
// в конфиге), пропускаются и попадают в лог
func (l *Ledger) Restore(ctx context.Context, reservations []*domain.Reservation) (int, error) {
	today := l.clock.Now()
	restored := 0

	for _, r := range reservations {
		if ctx.Err() != nil {
			return restored, ctx.Err()
		}
		if r == nil || !r.IsActive() || r.Count < 1 || domain.DateBefore(r.Date, today) {
			continue
		}

		key := r.Key()
		def, err := l.catalog.Definition(key.BookingType, key.FulfillmentPath, key.TimeOfDay)
		if err != nil {
			l.logger.Error("Restore: reservation id=%s skipped, cell=%s is not in catalog: %v", r.ID, key, err)
			continue
		}

		if _, err := l.holding(r.ID); err == nil {
			l.logger.Warn("Restore: reservation id=%s already loaded, skipping", r.ID)
			continue
		}

		c := l.cellFor(key)

		c.mu.Lock()
		if c.reserved+r.Count > def.TotalCapacity {
			reserved := c.reserved
			c.mu.Unlock()
			l.logger.Error("Restore: reservation id=%s skipped, cell=%s would exceed capacity (%d+%d > %d)",
				r.ID, key, reserved, r.Count, def.TotalCapacity)
			continue
		}

		c.reserved += r.Count
		h := &holding{cell: c, reservation: *r}
		h.reservation.Date = key.Date

		l.holdsMu.Lock()
		l.holds[r.ID] = h
		l.holdsMu.Unlock()
		c.mu.Unlock()

		restored++
	}

	l.logger.Info("Restore: restored %d of %d reservations", restored, len(reservations))
	return restored, nil
}

package cancel_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	reservationRepo "github.com/m04kA/SMC-LaundryScheduler/internal/infra/storage/reservation"
)

// UseCase отменяет резервы заказа: возвращает вместимость в ledger и помечает сохраненные резервы
type UseCase struct {
	ledger       Ledger
	repo         ReservationRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger Ledger, repo ReservationRepository, logger Logger) *UseCase {
	return &UseCase{
		ledger:       ledger,
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены.
// Отменить можно только резервы своего заказа. Повторная отмена безопасна: вместимость
// не возвращается дважды, а строка в БД помечается освобожденной, если прошлый вызов не успел
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CancelReservation: order=%s, reservations=%d", req.OrderRef, len(req.ReservationIDs))

	// 2. Проверяем все резервы до изменений
	for _, id := range req.ReservationIDs {
		res, err := uc.ledger.Get(id)
		if err != nil {
			if errors.Is(err, domain.ErrReservationNotFound) {
				uc.logger.Warn("CancelReservation: reservation id=%s not found", id)
				return nil, fmt.Errorf("%w: id=%s", ErrReservationNotFound, id)
			}
			uc.logger.Error("CancelReservation: failed to get reservation id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}
		if res.OrderRef != req.OrderRef {
			uc.logger.Warn("CancelReservation: access denied for order=%s to reservation id=%s", req.OrderRef, id)
			return nil, fmt.Errorf("%w: id=%s", ErrAccessDenied, id)
		}
	}

	// 3. Возвращаем вместимость и помечаем сохраненные резервы.
	// Сохраняются только подтвержденные резервы, поэтому удерживаемые в БД не ищем
	ctx = context.WithoutCancel(ctx)
	now := uc.timeProvider.Now()
	released := 0

	for _, id := range req.ReservationIDs {
		prev, err := uc.ledger.Withdraw(ctx, id, domain.ReleaseCancelled)
		if err != nil {
			uc.logger.Error("CancelReservation: failed to release reservation id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: failed to release reservation: %v", ErrInternal, err)
		}
		if prev == domain.ReservationHeld {
			released++
			continue
		}
		if prev == domain.ReservationConfirmed {
			released++
		}

		err = uc.repo.MarkReleased(ctx, id, now, domain.ReleaseCancelled)
		if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("CancelReservation: failed to mark reservation id=%s released: %v", id, err)
			return nil, fmt.Errorf("%w: failed to mark reservation released: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CancelReservation: order=%s cancelled, released=%d", req.OrderRef, released)
	return &Response{Released: released}, nil
}

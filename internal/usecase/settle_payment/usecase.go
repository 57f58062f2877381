package settle_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	reservationRepo "github.com/m04kA/SMC-LaundryScheduler/internal/infra/storage/reservation"
)

// UseCase применяет результат оплаты к удерживаемым резервам заказа
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

// Execute выполняет use case.
// Успешная оплата: резервы подтверждаются в ledger, затем сохраняются. Если сохранить не удалось,
// резервы освобождаются и возвращается ErrInternal.
// Неуспешная оплата: резервы освобождаются и возвращается ErrPaymentFailed.
// Резервы чужого заказа не трогаются: ErrInvalidInput
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SettlePayment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("SettlePayment: order=%s, outcome=%s, reservations=%d",
		req.OrderRef, req.Outcome, len(req.ReservationIDs))

	// 2. Резервы должны принадлежать заказу
	if err := uc.checkOwnership(req); err != nil {
		uc.logger.Warn("SettlePayment: order=%s rejected: %v", req.OrderRef, err)
		return nil, err
	}

	// 3. Оплата не прошла - возвращаем вместимость
	if req.Outcome == domain.PaymentFailed {
		uc.releaseAll(ctx, req.OrderRef, req.ReservationIDs, domain.ReleasePaymentFailed)
		return nil, fmt.Errorf("%w: order=%s", ErrPaymentFailed, req.OrderRef)
	}

	// 4. Подтверждаем резервы, чтобы их не освободил reaper
	confirmed := make([]*domain.Reservation, 0, len(req.ReservationIDs))
	for _, id := range req.ReservationIDs {
		res, err := uc.ledger.Confirm(ctx, id)
		if err != nil {
			uc.releaseAll(ctx, req.OrderRef, req.ReservationIDs, domain.ReleaseRollback)
			if errors.Is(err, domain.ErrReservationReleased) || errors.Is(err, domain.ErrReservationNotFound) {
				uc.logger.Warn("SettlePayment: reservation id=%s is no longer held, order=%s", id, req.OrderRef)
				return nil, fmt.Errorf("%w: reservation id=%s: %v", ErrHoldExpired, id, err)
			}
			uc.logger.Error("SettlePayment: failed to confirm reservation id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: failed to confirm reservation: %v", ErrInternal, err)
		}
		confirmed = append(confirmed, res)
	}

	// 5. Сохраняем подтвержденные резервы. При ошибке releaseAll помечает уже сохраненные освобожденными
	for _, res := range confirmed {
		if _, err := uc.repo.Create(ctx, res); err != nil {
			uc.logger.Error("SettlePayment: failed to save reservation id=%s, order=%s: %v", res.ID, req.OrderRef, err)
			uc.releaseAll(ctx, req.OrderRef, req.ReservationIDs, domain.ReleaseRollback)
			return nil, fmt.Errorf("%w: failed to save reservation: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("SettlePayment: order=%s confirmed, reservations=%d", req.OrderRef, len(confirmed))
	return &Response{Reservations: confirmed}, nil
}

// releaseAll освобождает резервы. Повторное освобождение в ledger - no-op.
// Подтвержденные резервы могли быть сохранены: их строки помечаются освобожденными,
// иначе после рестарта Restore снова займет вместимость
func (uc *UseCase) releaseAll(ctx context.Context, orderRef string, ids []uuid.UUID, reason domain.ReleaseReason) {
	ctx = context.WithoutCancel(ctx)
	now := uc.timeProvider.Now()

	for _, id := range ids {
		prev, err := uc.ledger.Withdraw(ctx, id, reason)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrReservationNotFound):
			uc.logger.Warn("SettlePayment: reservation id=%s not found on release, order=%s", id, orderRef)
			continue
		default:
			uc.logger.Error("SettlePayment: failed to release reservation id=%s, order=%s: %v", id, orderRef, err)
			continue
		}

		if prev != domain.ReservationConfirmed {
			continue
		}

		err = uc.repo.MarkReleased(ctx, id, now, reason)
		switch {
		case err == nil:
			uc.logger.Info("SettlePayment: stored reservation id=%s marked released, reason=%s", id, reason)
		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			// подтвержден, но еще не сохранен
		default:
			uc.logger.Error("SettlePayment: failed to mark reservation id=%s released: %v", id, err)
		}
	}
}

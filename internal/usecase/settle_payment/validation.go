package settle_payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.OrderRef == "" {
		return fmt.Errorf("%w: orderRef is required", ErrInvalidInput)
	}

	if !req.Outcome.IsValid() {
		return fmt.Errorf("%w: unknown payment outcome %q", ErrInvalidInput, req.Outcome)
	}

	if len(req.ReservationIDs) == 0 {
		return fmt.Errorf("%w: at least one reservation is required", ErrInvalidInput)
	}

	seen := make(map[uuid.UUID]struct{}, len(req.ReservationIDs))
	for _, id := range req.ReservationIDs {
		if id == uuid.Nil {
			return fmt.Errorf("%w: reservation id is required", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate reservation id=%s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// checkOwnership проверяет, что все известные ledger резервы принадлежат заказу.
// Неизвестные id пропускает: их отсутствие обрабатывается на следующих шагах
func (uc *UseCase) checkOwnership(req *Request) error {
	for _, id := range req.ReservationIDs {
		res, err := uc.ledger.Get(id)
		if err != nil {
			if errors.Is(err, domain.ErrReservationNotFound) {
				continue
			}
			return fmt.Errorf("%w: failed to get reservation id=%s: %v", ErrInternal, id, err)
		}
		if res.OrderRef != req.OrderRef {
			return fmt.Errorf("%w: reservation id=%s belongs to another order", ErrInvalidInput, id)
		}
	}
	return nil
}

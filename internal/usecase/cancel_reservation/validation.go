package cancel_reservation

import (
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

	if len(req.OrderRef) > domain.MaxOrderRefSize {
		return fmt.Errorf("%w: orderRef must be at most %d characters", ErrInvalidInput, domain.MaxOrderRefSize)
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

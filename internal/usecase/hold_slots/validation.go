package hold_slots

import (
	"fmt"

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

	if req.Order.Delivery.Stage != domain.StageTimeChosen {
		return fmt.Errorf("%w: delivery time is not chosen", ErrInvalidInput)
	}

	if !req.Order.SelfClaimEnabled {
		return nil
	}

	if req.Order.SelfClaim.Stage != domain.StageTimeChosen {
		return fmt.Errorf("%w: self-claim time is not chosen", ErrInvalidInput)
	}

	if req.Order.SharedBookingType && req.Order.SelfClaim.BookingType != req.Order.Delivery.BookingType {
		return fmt.Errorf("%w: booking type must be the same for delivery and self-claim", ErrInvalidInput)
	}

	return nil
}

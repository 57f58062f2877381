package selection

import (
	"fmt"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// Order выбор одного заказа: доставка и, опционально, самовывоз.
// Даты и время путей независимы; тип бронирования общий, если SharedBookingType
type Order struct {
	Delivery          domain.SelectionState
	SelfClaim         domain.SelectionState
	SelfClaimEnabled  bool
	SharedBookingType bool
}

// NewOrder создает пустой выбор заказа
func NewOrder(selfClaimEnabled, sharedBookingType bool) Order {
	return Order{
		Delivery:          domain.NewSelectionState(domain.FulfillmentDelivery),
		SelfClaim:         domain.NewSelectionState(domain.FulfillmentSelfClaim),
		SelfClaimEnabled:  selfClaimEnabled,
		SharedBookingType: sharedBookingType,
	}
}

// WithSelfClaim включает или выключает самовывоз. Выключение очищает его выбор
func (o Order) WithSelfClaim(enabled bool) Order {
	o.SelfClaimEnabled = enabled
	o.SelfClaim = o.SelfClaim.Cleared()
	if enabled && o.SharedBookingType && o.Delivery.HasBookingType() {
		o.SelfClaim = typeChosen(o.SelfClaim, o.Delivery.BookingType)
	}
	return o
}

// SelectOrderBookingType выбирает тип для доставки и, при общем типе, для самовывоза.
// Сброс доставки повторным выбором сбрасывает и самовывоз
func (m *Machine) SelectOrderBookingType(order Order, bookingType domain.BookingType) (Order, error) {
	shared := order.SharedBookingType && order.SelfClaimEnabled
	if shared && order.SelfClaim.Stage == domain.StageCommitted {
		err := fmt.Errorf("%w: self-claim selection is committed", domain.ErrInvalidTransition)
		m.observe(TransitionSelectBookingType, err)
		return order, err
	}

	delivery, err := m.SelectBookingType(order.Delivery, bookingType)
	if err != nil {
		return order, err
	}

	next := order
	next.Delivery = delivery

	if shared {
		if delivery.HasBookingType() {
			next.SelfClaim = typeChosen(order.SelfClaim, bookingType)
		} else {
			next.SelfClaim = order.SelfClaim.Cleared()
		}
	}

	return next, nil
}

func typeChosen(state domain.SelectionState, bookingType domain.BookingType) domain.SelectionState {
	next := state.Cleared()
	next.BookingType = bookingType
	next.Stage = domain.StageTypeChosen
	return next
}

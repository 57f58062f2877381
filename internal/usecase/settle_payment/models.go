package settle_payment

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

// Request модель запроса с результатом оплаты заказа
type Request struct {
	OrderRef       string                // Внешний идентификатор заказа
	Outcome        domain.PaymentOutcome // Результат оплаты от платежного шага
	ReservationIDs []uuid.UUID           // Резервы заказа, полученные при удержании слотов
}

// Response модель ответа с подтвержденными резервами
type Response struct {
	Reservations []*domain.Reservation
}

package cancel_reservation

import "github.com/google/uuid"

// Request модель запроса на отмену резервов заказа
type Request struct {
	OrderRef       string      // Внешний идентификатор заказа
	ReservationIDs []uuid.UUID // Отменяемые резервы заказа
}

// Response модель ответа
type Response struct {
	Released int // Сколько резервов вернули вместимость этим вызовом
}

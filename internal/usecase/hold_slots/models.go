package hold_slots

import (
	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/selection"
)

// Request модель запроса на удержание слотов заказа
type Request struct {
	OrderRef string          // Внешний идентификатор заказа
	Order    selection.Order // Выбор доставки и самовывоза, оба в стадии TimeChosen
}

// Response модель ответа
type Response struct {
	Order        selection.Order       // Выбор после перехода (Committed или возвращенный к выбору времени)
	Reservations []*domain.Reservation // Удерживаемые резервы: доставка, затем самовывоз
}

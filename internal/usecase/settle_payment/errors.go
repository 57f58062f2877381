package settle_payment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("settle_payment: invalid input data")

	// ErrPaymentFailed возвращается, когда оплата не прошла и резервы освобождены
	ErrPaymentFailed = errors.New("settle_payment: payment failed")

	// ErrHoldExpired возвращается, когда резерв истек или был отменен до подтверждения оплаты
	ErrHoldExpired = errors.New("settle_payment: reservation hold expired")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("settle_payment: internal error")
)

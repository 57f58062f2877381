package hold_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("hold_slots: invalid input data")

	// ErrSlotTaken возвращается, когда выбранный слот заняли между выбором и резервированием
	ErrSlotTaken = errors.New("hold_slots: slot was taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("hold_slots: internal error")
)

package hold_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/selection"
)

// UseCase удерживает слоты заказа до результата оплаты.
// Заказ резервируется целиком: если самовывоз не удалось зарезервировать, доставка освобождается
type UseCase struct {
	machine SelectionMachine
	ledger  Ledger
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(machine SelectionMachine, ledger Ledger, logger Logger) *UseCase {
	return &UseCase{
		machine: machine,
		ledger:  ledger,
		logger:  logger,
	}
}

// Execute выполняет use case удержания слотов.
// При ErrSlotTaken Response содержит выбор, возвращенный к выбору времени
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("HoldSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("HoldSlots: order=%s, delivery=%s, selfClaim=%t",
		req.OrderRef, req.Order.Delivery.CellKey(), req.Order.SelfClaimEnabled)

	order := req.Order

	// 2. Резервируем доставку
	delivery, deliveryRes, err := uc.machine.Commit(ctx, order.Delivery, req.OrderRef)
	order.Delivery = delivery
	if err != nil {
		return uc.fail(order, "delivery", err)
	}

	resp := &Response{
		Order:        order,
		Reservations: []*domain.Reservation{deliveryRes},
	}

	if !order.SelfClaimEnabled {
		uc.logger.Info("HoldSlots: order=%s held, reservation id=%s", req.OrderRef, deliveryRes.ID)
		return resp, nil
	}

	// 3. Резервируем самовывоз, при неудаче откатываем доставку
	selfClaim, selfClaimRes, err := uc.machine.Commit(ctx, order.SelfClaim, req.OrderRef)
	order.SelfClaim = selfClaim
	if err != nil {
		order.Delivery = uc.rollback(ctx, req.OrderRef, order.Delivery, deliveryRes)
		return uc.fail(order, "self-claim", err)
	}

	resp.Order = order
	resp.Reservations = append(resp.Reservations, selfClaimRes)

	uc.logger.Info("HoldSlots: order=%s held, reservations delivery=%s, selfClaim=%s",
		req.OrderRef, deliveryRes.ID, selfClaimRes.ID)

	return resp, nil
}

// rollback освобождает уже удержанную доставку и возвращает ее выбор к выбору времени
func (uc *UseCase) rollback(ctx context.Context, orderRef string, state domain.SelectionState, res *domain.Reservation) domain.SelectionState {
	// ctx мог быть отменен, а вместимость нужно вернуть в любом случае
	if err := uc.ledger.Release(context.WithoutCancel(ctx), res.ID, domain.ReleaseRollback); err != nil {
		uc.logger.Error("HoldSlots: failed to roll back delivery reservation id=%s, order=%s: %v", res.ID, orderRef, err)
	}

	reverted, err := uc.machine.RevertCommit(state)
	if err != nil {
		uc.logger.Error("HoldSlots: failed to revert delivery selection, order=%s: %v", orderRef, err)
		return state
	}
	return reverted
}

func (uc *UseCase) fail(order selection.Order, path string, err error) (*Response, error) {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		uc.logger.Warn("HoldSlots: %s slot was taken: %v", path, err)
		return &Response{Order: order}, fmt.Errorf("%w: %s: %v", ErrSlotTaken, path, err)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConfig):
		uc.logger.Warn("HoldSlots: %s selection rejected: %v", path, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, path, err)
	default:
		uc.logger.Error("HoldSlots: failed to hold %s slot: %v", path, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrInternal, path, err)
	}
}

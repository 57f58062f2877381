// Package app собирает ядро планировщика из конфигурации
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-LaundryScheduler/internal/config"
	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/availability"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/calendar"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/catalog"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/ledger"
	"github.com/m04kA/SMC-LaundryScheduler/internal/service/selection"
	"github.com/m04kA/SMC-LaundryScheduler/internal/usecase/cancel_reservation"
	"github.com/m04kA/SMC-LaundryScheduler/internal/usecase/hold_slots"
	"github.com/m04kA/SMC-LaundryScheduler/internal/usecase/settle_payment"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Store хранилище резервов
type Store interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	MarkReleased(ctx context.Context, id uuid.UUID, releasedAt time.Time, reason domain.ReleaseReason) error
	GetActiveFrom(ctx context.Context, from time.Time) ([]*domain.Reservation, error)
}

// App компоненты ядра, доступные слою представления
type App struct {
	Calendar      *calendar.Window
	Catalog       *catalog.Catalog
	Ledger        *ledger.Ledger
	Selection     *selection.Machine
	Availability  *availability.View
	HoldSlots     *hold_slots.UseCase
	SettlePayment *settle_payment.UseCase
	Cancel        *cancel_reservation.UseCase

	store        Store
	clock        *ShopClock
	reservations config.ReservationsConfig
	logger       Logger
}

// New собирает ядро. db может быть nil: тогда резервы не сохраняются и не восстанавливаются.
// m может быть nil, если метрики выключены
func New(cfg *config.Config, logger Logger, m *metrics.Metrics, db reservation.DBExecutor) (*App, error) {
	weekday, err := cfg.Shop.Weekday()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Shop.Location()
	if err != nil {
		return nil, err
	}

	window, err := calendar.New(weekday, cfg.Shop.HorizonDays)
	if err != nil {
		return nil, err
	}

	tables, err := cfg.Catalog.Tables()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(cfg.Shop.Hours(), tables)
	if err != nil {
		return nil, err
	}

	var store Store = discardStore{}
	if db != nil {
		store = reservation.NewRepository(db)
	}

	clock := NewShopClock(loc)
	l := ledger.New(cat, window, clock, m, logger)
	machine := selection.New(window, l, clock, m, logger)

	logger.Info("App: core initialized, closed=%s, horizon=%d days, tables=%d, timezone=%s, persistence=%t",
		weekday, cfg.Shop.HorizonDays, len(tables), loc, db != nil)

	return &App{
		Calendar:      window,
		Catalog:       cat,
		Ledger:        l,
		Selection:     machine,
		Availability:  availability.New(window, cat, l, clock),
		HoldSlots:     hold_slots.NewUseCase(machine, l, logger),
		SettlePayment: settle_payment.NewUseCase(l, store, logger),
		Cancel:        cancel_reservation.NewUseCase(l, store, logger),
		store:         store,
		clock:         clock,
		reservations:  cfg.Reservations,
		logger:        logger,
	}, nil
}

// Restore загружает в ledger активные резервы с сегодняшнего дня
func (a *App) Restore(ctx context.Context) (int, error) {
	active, err := a.store.GetActiveFrom(ctx, a.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to load reservations: %w", err)
	}
	return a.Ledger.Restore(ctx, active)
}

// Run запускает фоновые задачи ядра и блокируется до отмены ctx
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Ledger.RunExpirationWorker(ctx, a.reservations.ReaperInterval(), a.reservations.HoldTTL())
	})

	return g.Wait()
}

package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// Catalog неизменяемый справочник временных слотов по (booking type, fulfillment path).
// Безопасен для конкурентного чтения: после New не мутируется
type Catalog struct {
	hours  domain.ShopHours
	tables map[domain.CatalogKey][]domain.TimeSlotDefinition
	index  map[domain.CatalogKey]map[types.TimeString]int
}

// New валидирует и собирает каталог. Любое нарушение - domain.ErrConfig
func New(hours domain.ShopHours, tables map[domain.CatalogKey][]domain.TimeSlotDefinition) (*Catalog, error) {
	if err := validateHours(hours); err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: catalog has no slot tables", domain.ErrConfig)
	}

	c := &Catalog{
		hours:  hours,
		tables: make(map[domain.CatalogKey][]domain.TimeSlotDefinition, len(tables)),
		index:  make(map[domain.CatalogKey]map[types.TimeString]int, len(tables)),
	}

	for key, defs := range tables {
		if err := validateTable(hours, key, defs); err != nil {
			return nil, err
		}

		copied := make([]domain.TimeSlotDefinition, len(defs))
		copy(copied, defs)

		idx := make(map[types.TimeString]int, len(copied))
		for i, def := range copied {
			idx[def.TimeOfDay] = i
		}

		c.tables[key] = copied
		c.index[key] = idx
	}

	return c, nil
}

// Hours возвращает часы работы магазина
func (c *Catalog) Hours() domain.ShopHours {
	return c.hours
}

// Keys возвращает все таблицы каталога в стабильном порядке
func (c *Catalog) Keys() []domain.CatalogKey {
	keys := make([]domain.CatalogKey, 0, len(c.tables))
	for key := range c.tables {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].BookingType != keys[j].BookingType {
			return keys[i].BookingType < keys[j].BookingType
		}
		return keys[i].FulfillmentPath < keys[j].FulfillmentPath
	})
	return keys
}

// DefinitionsFor возвращает слоты таблицы по возрастанию времени (копию)
func (c *Catalog) DefinitionsFor(bookingType domain.BookingType, path domain.FulfillmentPath) ([]domain.TimeSlotDefinition, error) {
	key := domain.CatalogKey{BookingType: bookingType, FulfillmentPath: path}

	defs, ok := c.tables[key]
	if !ok {
		return nil, fmt.Errorf("%w: no slot table for booking type %q and fulfillment path %q",
			domain.ErrConfig, bookingType, path)
	}

	out := make([]domain.TimeSlotDefinition, len(defs))
	copy(out, defs)
	return out, nil
}

// Definition возвращает определение одного слота
func (c *Catalog) Definition(bookingType domain.BookingType, path domain.FulfillmentPath, timeOfDay types.TimeString) (domain.TimeSlotDefinition, error) {
	key := domain.CatalogKey{BookingType: bookingType, FulfillmentPath: path}

	idx, ok := c.index[key]
	if !ok {
		return domain.TimeSlotDefinition{}, fmt.Errorf("%w: no slot table for booking type %q and fulfillment path %q",
			domain.ErrConfig, bookingType, path)
	}

	i, ok := idx[timeOfDay]
	if !ok {
		return domain.TimeSlotDefinition{}, fmt.Errorf("%w: time %s is not offered for %s/%s",
			domain.ErrConfig, timeOfDay, bookingType, path)
	}

	return c.tables[key][i], nil
}

func validateHours(hours domain.ShopHours) error {
	if err := hours.Open.Validate(); err != nil {
		return fmt.Errorf("%w: shop open time: %v", domain.ErrConfig, err)
	}
	if err := hours.Close.Validate(); err != nil {
		return fmt.Errorf("%w: shop close time: %v", domain.ErrConfig, err)
	}
	if !hours.Open.IsBefore(hours.Close) {
		return fmt.Errorf("%w: shop opens at %s but closes at %s", domain.ErrConfig, hours.Open, hours.Close)
	}
	return nil
}

func validateTable(hours domain.ShopHours, key domain.CatalogKey, defs []domain.TimeSlotDefinition) error {
	if !key.BookingType.IsValid() {
		return fmt.Errorf("%w: unknown booking type %q", domain.ErrConfig, key.BookingType)
	}
	if !key.FulfillmentPath.IsValid() {
		return fmt.Errorf("%w: unknown fulfillment path %q", domain.ErrConfig, key.FulfillmentPath)
	}
	if len(defs) == 0 {
		return fmt.Errorf("%w: slot table %s/%s is empty", domain.ErrConfig, key.BookingType, key.FulfillmentPath)
	}

	for i, def := range defs {
		if err := def.TimeOfDay.Validate(); err != nil {
			return fmt.Errorf("%w: %s/%s slot #%d: %v", domain.ErrConfig, key.BookingType, key.FulfillmentPath, i, err)
		}
		if def.TotalCapacity < domain.MinSlotCapacity || def.TotalCapacity > domain.MaxSlotCapacity {
			return fmt.Errorf("%w: %s/%s slot %s: capacity must be between %d and %d, got %d",
				domain.ErrConfig, key.BookingType, key.FulfillmentPath, def.TimeOfDay,
				domain.MinSlotCapacity, domain.MaxSlotCapacity, def.TotalCapacity)
		}
		if !hours.Contains(def.TimeOfDay) {
			return fmt.Errorf("%w: %s/%s slot %s is outside shop hours %s-%s",
				domain.ErrConfig, key.BookingType, key.FulfillmentPath, def.TimeOfDay, hours.Open, hours.Close)
		}
		if strings.TrimSpace(def.DisplayLabel) == "" || len(def.DisplayLabel) > domain.MaxSlotLabelSize {
			return fmt.Errorf("%w: %s/%s slot %s: label must be 1..%d characters",
				domain.ErrConfig, key.BookingType, key.FulfillmentPath, def.TimeOfDay, domain.MaxSlotLabelSize)
		}
		// строго по возрастанию: заодно исключает дубликаты
		if i > 0 && !defs[i-1].TimeOfDay.IsBefore(def.TimeOfDay) {
			return fmt.Errorf("%w: %s/%s slots must be strictly increasing: %s then %s",
				domain.ErrConfig, key.BookingType, key.FulfillmentPath, defs[i-1].TimeOfDay, def.TimeOfDay)
		}
	}

	return nil
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LaundryScheduler/internal/domain"
)

var shopHours = domain.ShopHours{Open: "08:00", Close: "20:00"}

var normalDelivery = domain.CatalogKey{BookingType: domain.BookingTypeNormal, FulfillmentPath: domain.FulfillmentDelivery}

func defs() map[domain.CatalogKey][]domain.TimeSlotDefinition {
	return map[domain.CatalogKey][]domain.TimeSlotDefinition{
		normalDelivery: {
			{TimeOfDay: "09:00", DisplayLabel: "9:00 AM", TotalCapacity: 3},
			{TimeOfDay: "11:00", DisplayLabel: "11:00 AM", TotalCapacity: 1},
			{TimeOfDay: "15:00", DisplayLabel: "3:00 PM", TotalCapacity: 2},
		},
		{BookingType: domain.BookingTypeRush, FulfillmentPath: domain.FulfillmentSelfClaim}: {
			{TimeOfDay: "17:00", DisplayLabel: "5:00 PM", TotalCapacity: 5},
		},
	}
}

func TestNew_Success(t *testing.T) {
	c, err := New(shopHours, defs())
	require.NoError(t, err)

	got, err := c.DefinitionsFor(domain.BookingTypeNormal, domain.FulfillmentDelivery)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "11:00", got[1].TimeOfDay.String())

	def, err := c.Definition(domain.BookingTypeRush, domain.FulfillmentSelfClaim, "17:00")
	require.NoError(t, err)
	assert.Equal(t, 5, def.TotalCapacity)

	assert.Len(t, c.Keys(), 2)
	assert.Equal(t, normalDelivery, c.Keys()[0])
}

func TestNew_IsImmutable(t *testing.T) {
	input := defs()
	c, err := New(shopHours, input)
	require.NoError(t, err)

	input[normalDelivery][0].TotalCapacity = 100
	got, _ := c.DefinitionsFor(domain.BookingTypeNormal, domain.FulfillmentDelivery)
	got[1].TotalCapacity = 50

	def, err := c.Definition(domain.BookingTypeNormal, domain.FulfillmentDelivery, "09:00")
	require.NoError(t, err)
	assert.Equal(t, 3, def.TotalCapacity)

	def, err = c.Definition(domain.BookingTypeNormal, domain.FulfillmentDelivery, "11:00")
	require.NoError(t, err)
	assert.Equal(t, 1, def.TotalCapacity)
}

func TestNew_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		hours  domain.ShopHours
		mutate func(m map[domain.CatalogKey][]domain.TimeSlotDefinition)
	}{
		{
			name:   "zero capacity",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery][0].TotalCapacity = 0 },
		},
		{
			name:   "duplicate time",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery][1].TimeOfDay = "09:00" },
		},
		{
			name:   "not increasing",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery][2].TimeOfDay = "10:00" },
		},
		{
			name:   "outside shop hours",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery][2].TimeOfDay = "21:00" },
		},
		{
			name:   "invalid time",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery][0].TimeOfDay = "9am" },
		},
		{
			name:   "time without leading zero",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery][0].TimeOfDay = "9:00" },
		},
		{
			name:   "empty label",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery][0].DisplayLabel = " " },
		},
		{
			name:  "unknown booking type",
			hours: shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) {
				m[domain.CatalogKey{BookingType: "express", FulfillmentPath: domain.FulfillmentDelivery}] = m[normalDelivery]
			},
		},
		{
			name:   "empty table",
			hours:  shopHours,
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) { m[normalDelivery] = nil },
		},
		{
			name:   "inverted hours",
			hours:  domain.ShopHours{Open: "20:00", Close: "08:00"},
			mutate: func(m map[domain.CatalogKey][]domain.TimeSlotDefinition) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := defs()
			tt.mutate(m)

			c, err := New(tt.hours, m)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestNew_EmptyCatalog(t *testing.T) {
	_, err := New(shopHours, nil)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestLookups_Unknown(t *testing.T) {
	c, err := New(shopHours, defs())
	require.NoError(t, err)

	_, err = c.DefinitionsFor(domain.BookingTypeRush, domain.FulfillmentDelivery)
	assert.ErrorIs(t, err, domain.ErrConfig)

	_, err = c.Definition(domain.BookingTypeNormal, domain.FulfillmentDelivery, "10:00")
	assert.ErrorIs(t, err, domain.ErrConfig)
}

package domain

import "github.com/m04kA/SMC-LaundryScheduler/pkg/types"

// CatalogKey identifies one slot table of the catalog
type CatalogKey struct {
	BookingType     BookingType
	FulfillmentPath FulfillmentPath
}

// TimeSlotDefinition is a time of day offered for a booking type and fulfillment path
type TimeSlotDefinition struct {
	TimeOfDay     types.TimeString
	DisplayLabel  string
	TotalCapacity int
}

// ShopHours is the daily opening window of the shop, [Open, Close]
type ShopHours struct {
	Open  types.TimeString
	Close types.TimeString
}

// Contains returns true if the time of day falls within shop hours
func (h ShopHours) Contains(t types.TimeString) bool {
	return !t.IsBefore(h.Open) && !t.IsAfter(h.Close)
}

// AvailableSlot represents a time slot with its live capacity
type AvailableSlot struct {
	TimeOfDay      types.TimeString
	DisplayLabel   string
	AvailableSpots int
	TotalSpots     int
	Status         TimeStatus
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}

// AvailableDay is a window entry annotated for presentation
type AvailableDay struct {
	CalendarDay
	Status DateStatus
}

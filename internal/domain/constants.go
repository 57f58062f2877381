package domain

import "time"

// Default calendar values
const (
	DefaultHorizonDays   = 30
	DefaultClosedWeekday = time.Sunday
	DefaultReserveCount  = 1
)

// Business validation constants
const (
	MinHorizonDays   = 1
	MaxHorizonDays   = 365 // 1 year
	MinSlotCapacity  = 1
	MaxSlotCapacity  = 1000
	MaxSlotLabelSize = 64
	MaxOrderRefSize  = 128
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

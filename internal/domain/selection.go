package domain

import (
	"time"

	"github.com/m04kA/SMC-LaundryScheduler/pkg/types"
)

// SelectionStage is the state of the customer's in-progress choice
type SelectionStage string

const (
	StageEmpty      SelectionStage = "empty"
	StageTypeChosen SelectionStage = "type_chosen"
	StageDateChosen SelectionStage = "date_chosen"
	StageTimeChosen SelectionStage = "time_chosen"
	StageCommitted  SelectionStage = "committed"
)

// SelectionState holds one session's choices for one fulfillment path.
// It is a value: transitions return a new state and never share it across sessions.
type SelectionState struct {
	Stage           SelectionStage
	BookingType     BookingType // empty = unset
	FulfillmentPath FulfillmentPath
	SelectedDate    time.Time        // zero = unset
	SelectedTime    types.TimeString // empty = unset
}

// NewSelectionState returns an empty selection for the fulfillment path
func NewSelectionState(path FulfillmentPath) SelectionState {
	return SelectionState{Stage: StageEmpty, FulfillmentPath: path}
}

// Cleared returns the empty state keeping only the fulfillment path
func (s SelectionState) Cleared() SelectionState {
	return NewSelectionState(s.FulfillmentPath)
}

// HasBookingType returns true once a booking type was chosen
func (s SelectionState) HasBookingType() bool {
	return !s.BookingType.IsUnset()
}

// HasDate returns true once a date was chosen
func (s SelectionState) HasDate() bool {
	return !s.SelectedDate.IsZero()
}

// HasTime returns true once a time was chosen
func (s SelectionState) HasTime() bool {
	return !s.SelectedTime.IsZero()
}

// IsEmpty returns true if nothing was chosen
func (s SelectionState) IsEmpty() bool {
	return s.Stage == StageEmpty || s.Stage == ""
}

// CellKey returns the ledger cell of the current choice
func (s SelectionState) CellKey() CellKey {
	return NewCellKey(s.SelectedDate, s.SelectedTime, s.BookingType, s.FulfillmentPath)
}

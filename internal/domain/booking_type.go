package domain

import (
	"fmt"
	"strings"
)

// BookingType is the service tier of an order
type BookingType string

const (
	BookingTypeNormal BookingType = "normal"
	BookingTypeRush   BookingType = "rush"
)

// BookingTypes lists every supported booking type
var BookingTypes = []BookingType{BookingTypeNormal, BookingTypeRush}

// IsValid returns true for a known booking type
func (t BookingType) IsValid() bool {
	return t == BookingTypeNormal || t == BookingTypeRush
}

// IsUnset returns true when no booking type was chosen yet
func (t BookingType) IsUnset() bool {
	return t == ""
}

// ParseBookingType parses a case-insensitive booking type name
func ParseBookingType(s string) (BookingType, error) {
	t := BookingType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown booking type %q", ErrConfig, s)
	}
	return t, nil
}

// FulfillmentPath defines how the order gets back to the customer
type FulfillmentPath string

const (
	FulfillmentDelivery  FulfillmentPath = "delivery"
	FulfillmentSelfClaim FulfillmentPath = "self_claim"
)

// FulfillmentPaths lists every supported fulfillment path
var FulfillmentPaths = []FulfillmentPath{FulfillmentDelivery, FulfillmentSelfClaim}

// IsValid returns true for a known fulfillment path
func (p FulfillmentPath) IsValid() bool {
	return p == FulfillmentDelivery || p == FulfillmentSelfClaim
}

// ParseFulfillmentPath parses a fulfillment path name ("self-claim" is accepted too)
func ParseFulfillmentPath(s string) (FulfillmentPath, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	p := FulfillmentPath(normalized)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: unknown fulfillment path %q", ErrConfig, s)
	}
	return p, nil
}

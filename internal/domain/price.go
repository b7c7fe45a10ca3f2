package domain

import (
	"encoding/json"
	"strconv"
)

// UnresolvedPriceMarker is shown when the menu carries no usable price
const UnresolvedPriceMarker = "N/D"

// Price is either a resolved integer amount or an unresolved raw marker.
// The zero value is unresolved with the default marker.
type Price struct {
	amount   int
	raw      string
	resolved bool
}

// ResolvedPrice returns a price with a known amount
func ResolvedPrice(amount int) Price {
	return Price{amount: amount, resolved: true}
}

// UnresolvedPrice returns a price carrying the raw marker as-is
func UnresolvedPrice(raw string) Price {
	return Price{raw: raw}
}

// Amount returns the amount and whether the price is resolved
func (p Price) Amount() (int, bool) {
	return p.amount, p.resolved
}

// Resolved reports whether the price has a numeric amount
func (p Price) Resolved() bool {
	return p.resolved
}

func (p Price) String() string {
	if p.resolved {
		return strconv.Itoa(p.amount)
	}
	if p.raw == "" {
		return UnresolvedPriceMarker
	}
	return p.raw
}

// MarshalJSON renders resolved prices as numbers and unresolved ones as strings
func (p Price) MarshalJSON() ([]byte, error) {
	if p.resolved {
		return json.Marshal(p.amount)
	}
	return json.Marshal(p.String())
}

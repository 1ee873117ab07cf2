package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ride is a single normalized entry of the ride-history page.
type Ride struct {
	Date        time.Time       `json:"date"`
	Driver      string          `json:"driver"`
	RideType    string          `json:"rideType"`
	City        string          `json:"city"`
	Payment     string          `json:"payment"`
	SplitWith   *string         `json:"splitWith"`   // nil unless the fare was split
	RequestedBy *string         `json:"requestedBy"` // nil unless someone else requested the trip
	Canceled    bool            `json:"canceled"`
	Currency    *string         `json:"currency"` // nil when the fare carried no "$"
	Fare        decimal.Decimal `json:"fare"`

	// FareAfterSplit is only set by the split-aware output contract.
	FareAfterSplit *decimal.Decimal `json:"fareAfterSplit,omitempty"`
}

// Ambiguity records a marker that matched more than one token of a record.
// The slot is left empty and the tokens stay in place.
type Ambiguity struct {
	Record int    `json:"record"`
	Marker string `json:"marker"`
	Slot   string `json:"slot"`
	Tokens []int  `json:"tokens"`
}

// Conversion is the result of one pipeline pass over a ride-history export.
type Conversion struct {
	Source      string      `json:"source,omitempty"`
	Columns     []string    `json:"columns"`
	Rides       []Ride      `json:"rides"`
	Ambiguities []Ambiguity `json:"ambiguities,omitempty"`
}

// Canceled returns how many rides in the conversion were canceled.
func (c *Conversion) Canceled() int {
	n := 0
	for _, r := range c.Rides {
		if r.Canceled {
			n++
		}
	}
	return n
}

// TotalFare sums the fares of all rides, regardless of currency.
func (c *Conversion) TotalFare() decimal.Decimal {
	total := decimal.Zero
	for _, r := range c.Rides {
		total = total.Add(r.Fare)
	}
	return total
}

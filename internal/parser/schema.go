package parser

// Base columns, in the order the ride-history page lays them out.
const (
	ColDate     = "date"
	ColDriver   = "driver"
	ColFare     = "fare"
	ColRideType = "ride_type"
	ColCity     = "city"
	ColPayment  = "payment"
)

// Slot columns filled by the optional-column extractor.
const (
	ColSplitWith   = "split_with"
	ColRequestedBy = "requested_by"
	ColCanceled    = "canceled"
)

// Derived output columns.
const (
	ColCurrency       = "currency"
	ColFareAfterSplit = "fare_after_split"
)

// Markers identifying the tokens that only show up on some rides.
const (
	MarkerSplitWith   = "You split this fare with"
	MarkerRequestedBy = "This trip was requested by"
	MarkerCanceled    = "Canceled"
)

// Slot pairs a marker substring with the column that receives the token
// containing it.
type Slot struct {
	Marker string
	Name   string
}

// Schema describes the layout of an extracted row: the positional base columns
// followed by one cell per slot. A Schema is never mutated after construction;
// the With* methods return copies.
type Schema struct {
	base      []string
	slots     []Slot
	splitFare bool
}

// DefaultSchema returns the layout of the ride-history page.
func DefaultSchema() Schema {
	return Schema{
		base: []string{ColDate, ColDriver, ColFare, ColRideType, ColCity, ColPayment},
		slots: []Slot{
			{Marker: MarkerSplitWith, Name: ColSplitWith},
			{Marker: MarkerRequestedBy, Name: ColRequestedBy},
			{Marker: MarkerCanceled, Name: ColCanceled},
		},
	}
}

// WithSplitFare returns a copy of the schema that also derives fare_after_split.
func (s Schema) WithSplitFare() Schema {
	s.splitFare = true
	return s
}

// SplitFare reports whether the split-aware output contract is selected.
func (s Schema) SplitFare() bool { return s.splitFare }

// Base returns the positional columns.
func (s Schema) Base() []string {
	return append([]string(nil), s.base...)
}

// Slots returns the declared slots in processing order.
func (s Schema) Slots() []Slot {
	return append([]Slot(nil), s.slots...)
}

// Columns returns the full row layout: base columns then slot names.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.base)+len(s.slots))
	cols = append(cols, s.base...)
	for _, sl := range s.slots {
		cols = append(cols, sl.Name)
	}
	return cols
}

// OutputColumns returns the columns of the normalized table, in export order.
func (s Schema) OutputColumns() []string {
	cols := []string{
		ColDate, ColDriver, ColRideType, ColCity, ColPayment,
		ColSplitWith, ColRequestedBy, ColCanceled, ColCurrency, ColFare,
	}
	if s.splitFare {
		cols = append(cols, ColFareAfterSplit)
	}
	return cols
}

// index returns the position of a column in the row layout, or -1.
func (s Schema) index(name string) int {
	for i, c := range s.base {
		if c == name {
			return i
		}
	}
	for i, sl := range s.slots {
		if sl.Name == name {
			return len(s.base) + i
		}
	}
	return -1
}

// Row is a fixed-width extracted record laid out as Schema.Columns.
type Row []string

// Get returns the cell for a column, or "" when the schema has no such column.
func (r Row) Get(s Schema, name string) string {
	i := s.index(name)
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

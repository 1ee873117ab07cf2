package parser

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/ride-history-converter/internal/models"
)

const (
	currencyMarker = "$"

	splitPrefix     = MarkerSplitWith + " "
	requestedPrefix = MarkerRequestedBy + " "
)

// Separators between the names of a split fare ("Ana, Bo and Cy").
var nameSeparators = regexp.MustCompile(`\s*(?:,|&|\band\b)\s*`)

// Normalize converts extracted rows into rides. A row whose date cannot be
// parsed fails the whole batch; every other cell falls back to its zero value.
func Normalize(schema Schema, rows []Row) ([]models.Ride, error) {
	rides := make([]models.Ride, 0, len(rows))
	for i, row := range rows {
		ride, err := normalizeRow(schema, row)
		if err != nil {
			var mde *MalformedDateError
			if errors.As(err, &mde) {
				mde.Record = i
			}
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, nil
}

func normalizeRow(schema Schema, row Row) (models.Ride, error) {
	date, err := parseDate(row.Get(schema, ColDate))
	if err != nil {
		return models.Ride{}, err
	}

	currency, fare := splitFare(row.Get(schema, ColFare))
	ride := models.Ride{
		Date:        date,
		Driver:      row.Get(schema, ColDriver),
		RideType:    row.Get(schema, ColRideType),
		City:        row.Get(schema, ColCity),
		Payment:     row.Get(schema, ColPayment),
		SplitWith:   stripNotice(row.Get(schema, ColSplitWith), "split this", splitPrefix),
		RequestedBy: stripNotice(row.Get(schema, ColRequestedBy), "requested by", requestedPrefix),
		Canceled:    row.Get(schema, ColCanceled) == MarkerCanceled,
		Currency:    currency,
		Fare:        fare,
	}
	if schema.splitFare && ride.SplitWith != nil {
		share := FareAfterSplit(ride.Fare, *ride.SplitWith)
		ride.FareAfterSplit = &share
	}
	return ride, nil
}

// parseDate infers the date from the cell. The page prints month first, but
// a day-first cell is accepted when only that reading is valid. A cell that
// does not parse whole falls back to its first date token.
func parseDate(cell string) (time.Time, error) {
	text := strings.TrimSpace(cell)
	if text == "" {
		return time.Time{}, &MalformedDateError{Text: cell, Err: errors.New("no date")}
	}
	t, err := inferDate(text)
	if err != nil {
		if m := datePattern.FindString(text); m != "" && m != text {
			t, err = inferDate(m)
		}
	}
	if err != nil {
		return time.Time{}, &MalformedDateError{Text: cell, Err: err}
	}
	return t, nil
}

func inferDate(text string) (time.Time, error) {
	return dateparse.ParseAny(text,
		dateparse.PreferMonthFirst(true),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
}

// splitFare decomposes "CA$12.50" into currency "CA" and amount 12.50.
// A cell without "$" is an empty fare: no currency and amount 0.
func splitFare(cell string) (*string, decimal.Decimal) {
	before, after, found := strings.Cut(cell, currencyMarker)
	if !found {
		return nil, decimal.Zero
	}
	currency := strings.ReplaceAll(before, " ", "")
	return &currency, parseAmount(after)
}

// parseAmount reads "1,234.50" as a decimal. Anything unreadable or negative
// is treated as 0.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space
	if s == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(s)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// stripNotice returns the name part of a notice such as
// "You split this fare with Jane", or nil when the cell is not that notice.
func stripNotice(cell, keyword, prefix string) *string {
	if !strings.Contains(cell, keyword) {
		return nil
	}
	name := strings.Replace(cell, prefix, "", 1)
	return &name
}

// FareAfterSplit divides the fare between the rider and everyone named in
// splitWith, rounded to cents.
func FareAfterSplit(fare decimal.Decimal, splitWith string) decimal.Decimal {
	people := int64(1) + int64(countNames(splitWith))
	return fare.Div(decimal.NewFromInt(people)).Round(2)
}

func countNames(list string) int {
	n := 0
	for _, name := range nameSeparators.Split(strings.TrimSpace(list), -1) {
		if strings.TrimSpace(name) != "" {
			n++
		}
	}
	return n
}

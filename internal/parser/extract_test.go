package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/ride-history-converter/internal/models"
)

func TestExtract(t *testing.T) {
	schema := DefaultSchema()

	tests := []struct {
		name        string
		tokens      []string
		expected    Row
		ambiguities []models.Ambiguity
	}{
		{
			name:     "no optional fields",
			tokens:   []string{"01/02/18", "John Doe", "$10.00", "UberX", "San Francisco", "Visa"},
			expected: Row{"01/02/18", "John Doe", "$10.00", "UberX", "San Francisco", "Visa", "", "", ""},
		},
		{
			name:     "canceled ride",
			tokens:   []string{"01/03/18", "Jane Roe", "", "UberPOOL", "Oakland", "Canceled", "Visa"},
			expected: Row{"01/03/18", "Jane Roe", "", "UberPOOL", "Oakland", "Visa", "", "", "Canceled"},
		},
		{
			name: "split notice after the date",
			tokens: []string{
				"01/04/18", "You split this fare with Jane", "Ali", "$8.40", "UberX", "Austin", "Amex",
			},
			expected: Row{"01/04/18", "Ali", "$8.40", "UberX", "Austin", "Amex", "You split this fare with Jane", "", ""},
		},
		{
			name: "every slot present",
			tokens: []string{
				"01/05/18", "This trip was requested by Bob", "You split this fare with Bob",
				"Ali", "$8.40", "UberX", "Austin", "Canceled", "Amex",
			},
			expected: Row{
				"01/05/18", "Ali", "$8.40", "UberX", "Austin", "Amex",
				"You split this fare with Bob", "This trip was requested by Bob", "Canceled",
			},
		},
		{
			name:     "short record is padded",
			tokens:   []string{"01/06/18", "Ali"},
			expected: Row{"01/06/18", "Ali", "", "", "", "", "", "", ""},
		},
		{
			name:     "surplus fields are dropped",
			tokens:   []string{"01/07/18", "Ali", "$1", "UberX", "Austin", "Visa", "extra"},
			expected: Row{"01/07/18", "Ali", "$1", "UberX", "Austin", "Visa", "", "", ""},
		},
		{
			name:     "ambiguous marker leaves both tokens in place",
			tokens:   []string{"01/08/18", "Canceled Driver", "$5.00", "UberX", "Canceled", "Visa"},
			expected: Row{"01/08/18", "Canceled Driver", "$5.00", "UberX", "Canceled", "Visa", "", "", ""},
			ambiguities: []models.Ambiguity{
				{Marker: MarkerCanceled, Slot: ColCanceled, Tokens: []int{1, 4}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ambiguities := Extract(schema, tt.tokens)
			assert.Equal(t, tt.expected, row)
			assert.Equal(t, tt.ambiguities, ambiguities)
			assert.Len(t, row, len(schema.Columns()))
		})
	}
}

func TestExtractDoesNotModifyInput(t *testing.T) {
	tokens := []string{"01/03/18", "Canceled", "Jane", "", "UberX", "Oakland", "Visa"}
	original := append([]string(nil), tokens...)

	_, _ = Extract(DefaultSchema(), tokens)
	assert.Equal(t, original, tokens)
}

func TestExtractSlotAbsentMarkerIsIdempotent(t *testing.T) {
	tokens := []string{"01/02/18", "John Doe", "$10.00", "UberX", "San Francisco", "Visa"}

	value, rest, matches := extractSlot(tokens, MarkerCanceled)
	require.Empty(t, matches)
	assert.Equal(t, "", value)
	assert.Equal(t, tokens, rest)

	_, again, _ := extractSlot(rest, MarkerCanceled)
	assert.Equal(t, tokens, again)
}

func TestExtractSlotUsesSubstringMatch(t *testing.T) {
	tokens := []string{"01/02/18", "Ride Canceled by driver", "UberX"}

	value, rest, matches := extractSlot(tokens, MarkerCanceled)
	assert.Equal(t, []int{1}, matches)
	assert.Equal(t, "Ride Canceled by driver", value)
	assert.Equal(t, []string{"01/02/18", "UberX"}, rest)
}

func TestExtractReportsDroppedFields(t *testing.T) {
	schema := DefaultSchema()

	_, _, dropped := extract(schema, []string{"01/07/18", "Ali", "$1", "UberX", "Austin", "Visa", "x", "y"})
	assert.Equal(t, 2, dropped)

	_, _, dropped = extract(schema, []string{"01/07/18", "Ali", "Canceled"})
	assert.Equal(t, 0, dropped)
}

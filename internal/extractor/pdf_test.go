package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name     string
		pages    []string
		expected bool
	}{
		{
			name:     "trips page",
			pages:    []string{"Pickup\tDriver\tFare\tCar\tCity\tPayment method\n01/02/18\tJohn Doe\t$10.00\tUberX\tSan Francisco\tVisa"},
			expected: true,
		},
		{
			name:     "too short",
			pages:    []string{"fare"},
			expected: false,
		},
		{
			name:     "no trips vocabulary",
			pages:    []string{"Lorem ipsum dolor sit amet, consectetur adipiscing elit"},
			expected: false,
		},
		{
			name:     "garbage glyphs",
			pages:    []string{strings.Repeat("ÿþý", 30) + " fare"},
			expected: false,
		},
		{
			name:     "empty",
			pages:    nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isReadableText(tt.pages))
		})
	}
}

func TestTextQuality(t *testing.T) {
	assert.Equal(t, 0.0, textQuality(nil))
	assert.Equal(t, 1.0, textQuality([]string{"01/02/18\tJohn Doe"}))
	assert.InDelta(t, 0.5, textQuality([]string{"abÿþ"}), 0.001)
}

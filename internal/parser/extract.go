package parser

import (
	"strings"

	"github.com/insightdelivered/ride-history-converter/internal/models"
)

// Extract moves marker-identified tokens into their slots and lays the record
// out as a fixed-width Row for the schema.
//
// Slots are processed in declaration order, each against the token list left
// by the previous one. A marker found in exactly one token takes that token
// out of the positional sequence. A marker found nowhere, or in several
// tokens, leaves the slot empty and the tokens untouched; the latter case is
// returned as an Ambiguity.
func Extract(schema Schema, tokens []string) (Row, []models.Ambiguity) {
	row, ambiguities, _ := extract(schema, tokens)
	return row, ambiguities
}

// extract is Extract that also reports how many positional tokens were left
// over once the base columns were filled.
func extract(schema Schema, tokens []string) (Row, []models.Ambiguity, int) {
	var ambiguities []models.Ambiguity
	slotValues := make([]string, len(schema.slots))

	for i, slot := range schema.slots {
		value, rest, matches := extractSlot(tokens, slot.Marker)
		if len(matches) > 1 {
			ambiguities = append(ambiguities, models.Ambiguity{
				Marker: slot.Marker,
				Slot:   slot.Name,
				Tokens: matches,
			})
		}
		slotValues[i] = value
		tokens = rest
	}

	row := make(Row, len(schema.base)+len(schema.slots))
	copy(row[:len(schema.base)], tokens)
	copy(row[len(schema.base):], slotValues)

	dropped := len(tokens) - len(schema.base)
	if dropped < 0 {
		dropped = 0
	}
	return row, ambiguities, dropped
}

// extractSlot runs a single marker pass. It never modifies tokens: when the
// marker matches exactly one token a new slice without it is returned.
func extractSlot(tokens []string, marker string) (value string, rest []string, matches []int) {
	for i, tok := range tokens {
		if strings.Contains(tok, marker) {
			matches = append(matches, i)
		}
	}
	if len(matches) != 1 {
		return "", tokens, matches
	}

	idx := matches[0]
	rest = make([]string, 0, len(tokens)-1)
	rest = append(rest, tokens[:idx]...)
	rest = append(rest, tokens[idx+1:]...)
	return tokens[idx], rest, matches
}

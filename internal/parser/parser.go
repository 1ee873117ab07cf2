package parser

import (
	"log/slog"
	"strings"

	"github.com/insightdelivered/ride-history-converter/internal/extractor"
	"github.com/insightdelivered/ride-history-converter/internal/models"
)

// Parser turns a pasted ride-history page into rides.
type Parser struct {
	schema Schema
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithSplitFare selects the split-aware output contract, which adds
// fare_after_split to every ride whose fare was split.
func WithSplitFare() Option {
	return func(p *Parser) {
		p.schema = p.schema.WithSplitFare()
	}
}

// WithLogger sets the logger used for ambiguity and layout warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a parser for the ride-history page layout.
func New(opts ...Option) *Parser {
	p := &Parser{
		schema: DefaultSchema(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schema returns the layout the parser extracts.
func (p *Parser) Schema() Schema {
	return p.schema
}

// Parse runs the whole pipeline over the export text.
func (p *Parser) Parse(text string) (*models.Conversion, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	records := Segment(Prepare(text))
	p.logger.Debug("segmented ride history", "records", len(records))

	conv := &models.Conversion{
		Columns: p.schema.OutputColumns(),
	}
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		row, ambiguities, dropped := extract(p.schema, Tokenize(record))
		for _, a := range ambiguities {
			a.Record = i
			p.logger.Warn("marker matched several fields, slot left empty",
				"record", i+1,
				"marker", a.Marker,
				"slot", a.Slot,
				"tokens", a.Tokens,
			)
			conv.Ambiguities = append(conv.Ambiguities, a)
		}
		if dropped > 0 {
			p.logger.Debug("record has more fields than columns",
				"record", i+1,
				"dropped", dropped,
			)
		}
		rows = append(rows, row)
	}

	rides, err := Normalize(p.schema, rows)
	if err != nil {
		return nil, err
	}
	conv.Rides = rides

	p.logger.Info("parsed ride history",
		"rides", len(rides),
		"canceled", conv.Canceled(),
		"ambiguities", len(conv.Ambiguities),
	)
	return conv, nil
}

// ParseFile reads a .txt or .pdf export and parses it. The file path is
// recorded as the conversion source.
func (p *Parser) ParseFile(path string) (*models.Conversion, error) {
	text, err := extractor.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conv, err := p.Parse(text)
	if err != nil {
		return nil, err
	}
	conv.Source = path
	return conv, nil
}

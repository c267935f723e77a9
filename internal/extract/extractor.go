// Package extract pulls yearly male/female data points out of a raw sheet.
package extract

import (
	"math"
	"slices"

	"yearbars/domain/chart"
	"yearbars/domain/sheet"
	"yearbars/internal"
	apperrors "yearbars/internal/errors"
)

// Extractor reads data points from a fixed row range of a sheet
type Extractor struct {
	config chart.ExtractConfig
	logger *internal.Logger
}

// NewExtractor creates an extractor for the given layout
func NewExtractor(config chart.ExtractConfig) *Extractor {
	return &Extractor{config: config, logger: internal.DefaultLogger.With("Extractor")}
}

// Extract walks StartRow..EndRow by Step. The year sits one row above each
// step row, males on the step row and females on the row after it. The
// result is reversed so the oldest year comes first.
//
// In lenient mode unreadable values become NaN and unreadable years 0; in
// strict mode the first bad cell is reported as INVALID_INPUT.
func (e *Extractor) Extract(s *sheet.RawSheet) ([]chart.DataPoint, error) {
	cfg := e.config
	if cfg.Step <= 0 {
		return nil, apperrors.InvalidInputf("extraction step must be positive, got %d", cfg.Step)
	}

	points := make([]chart.DataPoint, 0, cfg.Count())
	for i := cfg.StartRow; i < cfg.EndRow; i += cfg.Step {
		year, err := e.year(s, i-1)
		if err != nil {
			return nil, err
		}
		males, err := e.value(s, i)
		if err != nil {
			return nil, err
		}
		females, err := e.value(s, i+1)
		if err != nil {
			return nil, err
		}
		points = append(points, chart.DataPoint{Label: year, Value1: males, Value2: females})
	}

	slices.Reverse(points)
	e.logger.Debug("extracted %d data points from %d rows", len(points), s.RowCount())
	return points, nil
}

// Title returns the chart title cell as text
func (e *Extractor) Title(s *sheet.RawSheet) string {
	return s.Cell(e.config.TitleRow, e.config.TitleColumn).String()
}

func (e *Extractor) year(s *sheet.RawSheet, row int) (int, error) {
	col := e.config.LabelColumn
	year, ok := s.Cell(row, col).Int()
	if ok {
		return year, nil
	}
	if e.config.Strict {
		return 0, e.cellError(s, row, col, "year")
	}
	e.logger.Trace("row %d col %d: year unreadable, using 0", row, col)
	return 0, nil
}

func (e *Extractor) value(s *sheet.RawSheet, row int) (float64, error) {
	col := e.config.ValueColumn
	v, ok := s.Cell(row, col).Float()
	if ok {
		return v, nil
	}
	if e.config.Strict {
		return 0, e.cellError(s, row, col, "count")
	}
	e.logger.Trace("row %d col %d: count unreadable, using NaN", row, col)
	return math.NaN(), nil
}

func (e *Extractor) cellError(s *sheet.RawSheet, row, col int, what string) error {
	if !s.HasCell(row, col) {
		return apperrors.InvalidInputf("expected %s at row %d, column %d, but the sheet has no such cell (%d rows)", what, row+1, col+1, s.RowCount())
	}
	return apperrors.InvalidInputf("expected %s at row %d, column %d, got %q", what, row+1, col+1, s.Cell(row, col).String())
}

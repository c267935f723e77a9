package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"

	"yearbars/domain/chart"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the sheet synthetic workbooks are written to
const DefaultSheetName = "Table 1"

// WorkbookSpec describes a synthetic yearly-statistics workbook
type WorkbookSpec struct {
	Title   string
	Points  []chart.DataPoint // chart order, oldest first
	Extract chart.ExtractConfig
}

// SyntheticPoints generates n consecutive years of male/female counts
func SyntheticPoints(firstYear, n int, seed int64) []chart.DataPoint {
	rng := rand.New(rand.NewSource(seed))
	points := make([]chart.DataPoint, n)
	for i := range points {
		male := 3000 + rng.Intn(3000)
		points[i] = chart.DataPoint{
			Label:  firstYear + i,
			Value1: float64(male),
			Value2: float64(male/3 + rng.Intn(500)),
		}
	}
	return points
}

// Grid lays the workbook out as rows of raw cell values. Year blocks are written
// newest first, the way published statistics tables list them.
func (s WorkbookSpec) Grid() [][]interface{} {
	cfg := s.Extract
	last := cfg.StartRow + (len(s.Points)-1)*cfg.Step + 1
	height := last + 1
	if cfg.TitleRow >= height {
		height = cfg.TitleRow + 1
	}
	width := cfg.ValueColumn + 1
	if cfg.LabelColumn >= width {
		width = cfg.LabelColumn + 1
	}
	if cfg.TitleColumn >= width {
		width = cfg.TitleColumn + 1
	}

	grid := make([][]interface{}, height)
	for i := range grid {
		grid[i] = make([]interface{}, width)
	}
	grid[cfg.TitleRow][cfg.TitleColumn] = s.Title

	for k := range s.Points {
		p := s.Points[len(s.Points)-1-k]
		row := cfg.StartRow + k*cfg.Step
		grid[row-1][cfg.LabelColumn] = p.Label
		grid[row][cfg.ValueColumn] = p.Value1
		grid[row+1][cfg.ValueColumn] = p.Value2
	}
	return grid
}

// NewWorkbook writes the layout into a fresh excelize workbook
func NewWorkbook(s WorkbookSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DefaultSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for r, row := range s.Grid() {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(DefaultSheetName, cell, v); err != nil {
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}
	return f, nil
}

// WorkbookBytes returns the workbook serialized as .xlsx
func WorkbookBytes(s WorkbookSpec) ([]byte, error) {
	f, err := NewWorkbook(s)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVBytes returns the workbook serialized as CSV
func CSVBytes(s WorkbookSpec) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range s.Grid() {
		record := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				record[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DefaultSpec is a complete 23-year workbook in the default layout
func DefaultSpec(seed int64) WorkbookSpec {
	cfg := chart.DefaultExtractConfig()
	return WorkbookSpec{
		Title:   "Suicides in England and Wales by sex, registered 1997 to 2019",
		Points:  SyntheticPoints(1997, cfg.Count(), seed),
		Extract: cfg,
	}
}

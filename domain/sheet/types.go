package sheet

import (
	"math"
	"strconv"
	"strings"
)

// CellType defines the storage type for a cell
type CellType string

const (
	CellTypeNumber CellType = "number"
	CellTypeText   CellType = "text"
	CellTypeEmpty  CellType = "empty"
)

// Cell is a tagged union of number, text and empty
type Cell struct {
	Type      CellType `json:"type"`
	NumberVal *float64 `json:"number_val,omitempty"`
	TextVal   *string  `json:"text_val,omitempty"`
}

// NewNumberCell creates a numeric cell
func NewNumberCell(n float64) Cell {
	return Cell{Type: CellTypeNumber, NumberVal: &n}
}

// NewTextCell creates a text cell; an empty string yields an empty cell
func NewTextCell(s string) Cell {
	if s == "" {
		return NewEmptyCell()
	}
	return Cell{Type: CellTypeText, TextVal: &s}
}

// NewEmptyCell creates an empty cell
func NewEmptyCell() Cell {
	return Cell{Type: CellTypeEmpty}
}

// IsNumber returns true if the cell holds a number
func (c Cell) IsNumber() bool {
	return c.Type == CellTypeNumber && c.NumberVal != nil
}

// IsText returns true if the cell holds text
func (c Cell) IsText() bool {
	return c.Type == CellTypeText && c.TextVal != nil
}

// IsEmpty returns true for empty cells, including the zero Cell
func (c Cell) IsEmpty() bool {
	return !c.IsNumber() && !c.IsText()
}

// String returns the cell the way a spreadsheet would display its raw value
func (c Cell) String() string {
	switch {
	case c.IsNumber():
		return strconv.FormatFloat(*c.NumberVal, 'f', -1, 64)
	case c.IsText():
		return *c.TextVal
	}
	return ""
}

// Float coerces the cell to a number. Text must parse completely.
func (c Cell) Float() (float64, bool) {
	switch {
	case c.IsNumber():
		return *c.NumberVal, true
	case c.IsText():
		return ParseDecimal(*c.TextVal)
	}
	return 0, false
}

// ParseDecimal parses plain decimal notation such as "12", "-3.5" or "1e3".
// Hex floats, underscores and the special values NaN and Inf are rejected.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= '0' && ch <= '9', ch == '.', ch == '+', ch == '-', ch == 'e', ch == 'E':
		default:
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Int coerces the cell to an integer with parseInt semantics: numbers are
// truncated and text contributes its leading signed digits.
func (c Cell) Int() (int, bool) {
	switch {
	case c.IsNumber():
		return int(*c.NumberVal), true
	case c.IsText():
		return leadingInt(*c.TextVal)
	}
	return 0, false
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Row is one ordered sequence of cells
type Row []Cell

// RawSheet is the ordered rows of a workbook's first sheet
type RawSheet struct {
	Name string
	Rows []Row
}

// Cell returns the cell at (row, col), or an empty cell when out of range
func (s *RawSheet) Cell(row, col int) Cell {
	if s == nil || row < 0 || row >= len(s.Rows) {
		return NewEmptyCell()
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return NewEmptyCell()
	}
	return r[col]
}

// HasCell reports whether (row, col) lies inside the parsed grid
func (s *RawSheet) HasCell(row, col int) bool {
	return s != nil && row >= 0 && row < len(s.Rows) && col >= 0 && col < len(s.Rows[row])
}

// RowCount returns the number of parsed rows
func (s *RawSheet) RowCount() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

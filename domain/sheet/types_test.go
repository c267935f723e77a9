package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellFloat(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   float64
		wantOK bool
	}{
		{"number", NewNumberCell(1234), 1234, true},
		{"numeric text", NewTextCell(" 56.5 "), 56.5, true},
		{"word", NewTextCell("Males"), 0, false},
		{"empty", NewEmptyCell(), 0, false},
		{"zero value", Cell{}, 0, false},
		{"exponent text", NewTextCell("1.5e3"), 1500, true},
		{"nan text", NewTextCell("NaN"), 0, false},
		{"inf text", NewTextCell("inf"), 0, false},
		{"infinity text", NewTextCell("-Infinity"), 0, false},
		{"hex float text", NewTextCell("0x1p4"), 0, false},
		{"underscores", NewTextCell("1_000"), 0, false},
		{"overflow", NewTextCell("1e400"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Float()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellInt(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   int
		wantOK bool
	}{
		{"whole number", NewNumberCell(2019), 2019, true},
		{"fraction truncates", NewNumberCell(2019.9), 2019, true},
		{"leading digits", NewTextCell("2019 (provisional)"), 2019, true},
		{"signed", NewTextCell("-12abc"), -12, true},
		{"no digits", NewTextCell("Year"), 0, false},
		{"empty", NewEmptyCell(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Int()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawSheetCellOutOfRange(t *testing.T) {
	s := &RawSheet{Rows: []Row{{NewTextCell("title")}, {}}}

	assert.Equal(t, "title", s.Cell(0, 0).String())
	assert.True(t, s.Cell(1, 0).IsEmpty())
	assert.True(t, s.Cell(5, 2).IsEmpty())
	assert.True(t, s.Cell(-1, 0).IsEmpty())
	assert.False(t, s.HasCell(1, 0))
	assert.Equal(t, 2, s.RowCount())

	var nilSheet *RawSheet
	assert.True(t, nilSheet.Cell(0, 0).IsEmpty())
	assert.Equal(t, 0, nilSheet.RowCount())
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "1234", NewNumberCell(1234).String())
	assert.Equal(t, "12.5", NewNumberCell(12.5).String())
	assert.Equal(t, "", NewTextCell("").String())
	assert.True(t, NewTextCell("").IsEmpty())
}

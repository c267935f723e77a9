package extract

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yearbars/adapters/coercer"
	"yearbars/domain/chart"
	"yearbars/domain/sheet"
	apperrors "yearbars/internal/errors"
	"yearbars/internal/testkit"
)

// rawSheet converts a testkit grid the way the excel reader would
func rawSheet(t *testing.T, spec testkit.WorkbookSpec) *sheet.RawSheet {
	t.Helper()
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	out := &sheet.RawSheet{Name: "test"}
	for _, row := range spec.Grid() {
		cells := make(sheet.Row, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case nil:
				cells[i] = sheet.NewEmptyCell()
			case string:
				cells[i] = c.CoerceCell(x)
			case int:
				cells[i] = sheet.NewNumberCell(float64(x))
			case float64:
				cells[i] = sheet.NewNumberCell(x)
			default:
				t.Fatalf("unexpected grid value %T", v)
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

func TestExtractDefaultLayout(t *testing.T) {
	spec := testkit.DefaultSpec(42)
	s := rawSheet(t, spec)

	points, err := NewExtractor(chart.DefaultExtractConfig()).Extract(s)
	require.NoError(t, err)

	assert.Len(t, points, 23)
	assert.Equal(t, spec.Points, points)
}

func TestExtractReversesRawOrder(t *testing.T) {
	spec := testkit.DefaultSpec(1)
	s := rawSheet(t, spec)

	// Raw row order lists the newest year first.
	firstRawYear, ok := s.Cell(11, 0).Int()
	require.True(t, ok)
	lastRawYear, ok := s.Cell(99, 0).Int()
	require.True(t, ok)

	points, err := NewExtractor(chart.DefaultExtractConfig()).Extract(s)
	require.NoError(t, err)

	assert.Equal(t, firstRawYear, points[len(points)-1].Label)
	assert.Equal(t, lastRawYear, points[0].Label)
}

func TestExtractTitle(t *testing.T) {
	spec := testkit.DefaultSpec(1)
	e := NewExtractor(chart.DefaultExtractConfig())

	assert.Equal(t, spec.Title, e.Title(rawSheet(t, spec)))
	assert.Equal(t, "", e.Title(&sheet.RawSheet{}))
}

func TestExtractLenientPassThrough(t *testing.T) {
	spec := testkit.DefaultSpec(5)
	s := rawSheet(t, spec)
	// 101 rows: the last female count falls off the sheet.
	s.Rows = s.Rows[:101]
	s.Rows[12][2] = sheet.NewTextCell("n/a")
	s.Rows[11][0] = sheet.NewTextCell("Year")

	points, err := NewExtractor(chart.DefaultExtractConfig()).Extract(s)
	require.NoError(t, err)
	require.Len(t, points, 23)

	newest := points[22]
	assert.Equal(t, 0, newest.Label)
	assert.True(t, math.IsNaN(newest.Value1))
	assert.Equal(t, spec.Points[22].Value2, newest.Value2)

	oldest := points[0]
	assert.True(t, math.IsNaN(oldest.Value2))
	assert.Equal(t, spec.Points[0].Value1, oldest.Value1)
}

func TestExtractStrict(t *testing.T) {
	cfg := chart.DefaultExtractConfig()
	cfg.Strict = true

	t.Run("complete sheet", func(t *testing.T) {
		points, err := NewExtractor(cfg).Extract(rawSheet(t, testkit.DefaultSpec(9)))
		require.NoError(t, err)
		assert.Len(t, points, 23)
	})

	t.Run("text count", func(t *testing.T) {
		s := rawSheet(t, testkit.DefaultSpec(9))
		s.Rows[16][2] = sheet.NewTextCell("suppressed")

		_, err := NewExtractor(cfg).Extract(s)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
		assert.Contains(t, err.Error(), `row 17, column 3, got "suppressed"`)
	})

	for _, txt := range []string{"NaN", "inf", "Infinity", "0x1p4"} {
		t.Run("non-decimal count "+txt, func(t *testing.T) {
			s := rawSheet(t, testkit.DefaultSpec(9))
			s.Rows[16][2] = sheet.NewTextCell(txt)

			_, err := NewExtractor(cfg).Extract(s)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
			assert.Contains(t, err.Error(), "row 17, column 3")
		})
	}

	t.Run("short sheet", func(t *testing.T) {
		s := rawSheet(t, testkit.DefaultSpec(9))
		s.Rows = s.Rows[:50]

		_, err := NewExtractor(cfg).Extract(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such cell (50 rows)")
	})

	t.Run("missing year", func(t *testing.T) {
		s := rawSheet(t, testkit.DefaultSpec(9))
		s.Rows[15][0] = sheet.NewEmptyCell()

		_, err := NewExtractor(cfg).Extract(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected year at row 16")
	})
}

func TestExtractCustomLayout(t *testing.T) {
	cfg := chart.ExtractConfig{StartRow: 3, EndRow: 9, Step: 3, LabelColumn: 1, ValueColumn: 4, TitleRow: 0, TitleColumn: 0}
	points := []chart.DataPoint{{Label: 2000, Value1: 10, Value2: 20}, {Label: 2001, Value1: 30, Value2: 40}}
	spec := testkit.WorkbookSpec{Title: "custom", Points: points, Extract: cfg}

	got, err := NewExtractor(cfg).Extract(rawSheet(t, spec))
	require.NoError(t, err)
	assert.Equal(t, points, got)
}

func TestExtractRejectsNonPositiveStep(t *testing.T) {
	cfg := chart.DefaultExtractConfig()
	cfg.Step = 0

	_, err := NewExtractor(cfg).Extract(&sheet.RawSheet{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

package coercer

import (
	"regexp"
	"strings"

	"yearbars/domain/sheet"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// TypeCoercer turns raw spreadsheet strings into typed cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	AllowThousandsSeparators bool `json:"allow_thousands_separators"` // "12,345" parses as 12345
	AllowParenNegatives      bool `json:"allow_paren_negatives"`      // "(12)" parses as -12
	CollapseWhitespace       bool `json:"collapse_whitespace"`        // runs of whitespace in text become one space
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		AllowThousandsSeparators: true,
		AllowParenNegatives:      true,
		CollapseWhitespace:       true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceCell deterministically converts a raw string to a typed cell
func (c *TypeCoercer) CoerceCell(raw string) sheet.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return sheet.NewEmptyCell()
	}

	if n, ok := c.tryParseNumeric(trimmed); ok {
		return sheet.NewNumberCell(n)
	}

	return sheet.NewTextCell(c.normalizeText(trimmed))
}

// CoerceRow converts every cell of a raw row
func (c *TypeCoercer) CoerceRow(raw []string) sheet.Row {
	row := make(sheet.Row, len(raw))
	for i, v := range raw {
		row[i] = c.CoerceCell(v)
	}
	return row
}

// tryParseNumeric attempts to parse as numeric with strict rules
func (c *TypeCoercer) tryParseNumeric(cleanVal string) (float64, bool) {
	isNegative := false
	if c.config.AllowParenNegatives && strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSpace(cleanVal[1 : len(cleanVal)-1])
		isNegative = true
	}

	if c.config.AllowThousandsSeparators && strings.Contains(cleanVal, ",") {
		if !validThousands(cleanVal) {
			return 0, false
		}
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}

	val, ok := sheet.ParseDecimal(cleanVal)
	if !ok {
		return 0, false
	}
	if isNegative {
		val = -val
	}
	return val, true
}

// validThousands accepts "1,234" and "12,345.6" but not "1,2" or "12,34,5"
func validThousands(s string) bool {
	intPart := s
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
	}
	intPart = strings.TrimLeft(intPart, "+-")
	groups := strings.Split(intPart, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// normalizeText collapses whitespace and drops control characters. Case is kept.
func (c *TypeCoercer) normalizeText(s string) string {
	if c.config.CollapseWhitespace {
		s = whitespaceRun.ReplaceAllString(s, " ")
	}
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

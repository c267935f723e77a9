package chart

// DataPoint is one chart category: a year with its male and female counts
type DataPoint struct {
	Label  int     `json:"label"`
	Value1 float64 `json:"value1"`
	Value2 float64 `json:"value2"`
}

// ExtractConfig locates the data points inside a raw sheet.
// Rows and columns are zero-based; EndRow is exclusive.
type ExtractConfig struct {
	StartRow    int  `json:"start_row"`
	EndRow      int  `json:"end_row"`
	Step        int  `json:"step"`
	LabelColumn int  `json:"label_column"`
	ValueColumn int  `json:"value_column"`
	TitleRow    int  `json:"title_row"`
	TitleColumn int  `json:"title_column"`
	Strict      bool `json:"strict"`
}

// DefaultExtractConfig returns the layout of the yearly statistics workbook:
// every fourth row from 12 carries a year block whose male and female totals
// sit in the next two rows.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		StartRow:    12,
		EndRow:      101,
		Step:        4,
		LabelColumn: 0,
		ValueColumn: 2,
		TitleRow:    1,
		TitleColumn: 0,
	}
}

// Count returns how many data points the row range produces
func (c ExtractConfig) Count() int {
	if c.Step <= 0 || c.EndRow <= c.StartRow {
		return 0
	}
	return (c.EndRow - c.StartRow + c.Step - 1) / c.Step
}

// Layout holds the fixed rendering constants
type Layout struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Margin       float64 `json:"margin"`
	BarPadding   float64 `json:"bar_padding"`
	BarSpacing   float64 `json:"bar_spacing"`
	XLabelOffset float64 `json:"x_label_offset"`
	YLabelOffset float64 `json:"y_label_offset"`
	TickLength   float64 `json:"tick_length"`
	YTicks       int     `json:"y_ticks"`

	XAxisTitle   string `json:"x_axis_title"`
	YAxisTitle   string `json:"y_axis_title"`
	Series1Label string `json:"series1_label"`
	Series2Label string `json:"series2_label"`
	Series1Color string `json:"series1_color"`
	Series2Color string `json:"series2_color"`
}

// DefaultLayout returns a 1600x800 canvas with blue male and red female bars
func DefaultLayout() Layout {
	return Layout{
		Width:        1600,
		Height:       800,
		Margin:       55,
		BarPadding:   1,
		BarSpacing:   15,
		XLabelOffset: 15,
		YLabelOffset: -10,
		TickLength:   5,
		YTicks:       5,
		XAxisTitle:   "Years",
		YAxisTitle:   "Number of Suicides (Total)",
		Series1Label: "M",
		Series2Label: "F",
		Series1Color: "blue",
		Series2Color: "red",
	}
}

// Geometry is derived from a Layout and the number of categories
type Geometry struct {
	Layout
	Categories int
	NumBars    int
	BarWidth   float64
	PlotHeight float64
	Baseline   float64
}

// NewGeometry computes bar width and the plot area for n categories
func NewGeometry(l Layout, n int) Geometry {
	numBars := n * 2
	totalSpacing := float64(numBars-1) * l.BarSpacing
	return Geometry{
		Layout:     l,
		Categories: n,
		NumBars:    numBars,
		BarWidth:   (l.Width - 2*l.Margin - totalSpacing/2) / float64(numBars),
		PlotHeight: l.Height - 2*l.Margin,
		Baseline:   l.Height - l.Margin,
	}
}

// GroupX returns the left edge of category i's bar pair
func (g Geometry) GroupX(i int) float64 {
	return g.Margin + float64(i)*(2*g.BarWidth+g.BarSpacing)
}

// BarHeight scales value linearly against maxValue onto the plot height
func (g Geometry) BarHeight(value, maxValue float64) float64 {
	return (value / maxValue) * g.PlotHeight
}

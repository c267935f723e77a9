// Package render lays data points out as a grouped bar chart.
package render

import (
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"yearbars/domain/chart"
	apperrors "yearbars/internal/errors"
	"yearbars/internal/svg"
)

const stroke = "black"

// Renderer turns data points into an SVG document. It holds no state
// between calls.
type Renderer struct {
	layout chart.Layout
}

// NewRenderer creates a renderer with the given layout constants
func NewRenderer(layout chart.Layout) *Renderer {
	return &Renderer{layout: layout}
}

// Layout returns the renderer's constants
func (r *Renderer) Layout() chart.Layout {
	return r.layout
}

// MaxValue returns the largest male or female count. Any NaN makes the
// result NaN, so broken input shows up as a broken chart rather than a
// silently rescaled one.
func MaxValue(points []chart.DataPoint) (float64, error) {
	values := make(stats.Float64Data, 0, len(points)*2)
	for _, p := range points {
		if math.IsNaN(p.Value1) || math.IsNaN(p.Value2) {
			return math.NaN(), nil
		}
		values = append(values, p.Value1, p.Value2)
	}
	max, err := stats.Max(values)
	if err != nil {
		return 0, apperrors.InvalidInput("no data points to render")
	}
	return max, nil
}

// Render draws title, axes and bars in that order
func (r *Renderer) Render(points []chart.DataPoint, title string) (*svg.Document, error) {
	if len(points) == 0 {
		return nil, apperrors.InvalidInput("no data points to render")
	}
	maxValue, err := MaxValue(points)
	if err != nil {
		return nil, err
	}

	p := &pass{
		geo:    chart.NewGeometry(r.layout, len(points)),
		points: points,
		max:    maxValue,
		doc:    svg.NewDocument(r.layout.Width, r.layout.Height),
	}
	p.title(title)
	p.axes()
	p.bars()
	return p.doc, nil
}

// pass carries one render's derived values
type pass struct {
	geo    chart.Geometry
	points []chart.DataPoint
	max    float64
	doc    *svg.Document
}

func (p *pass) title(title string) {
	g := p.geo
	p.doc.Append(text(g.Width/2, g.Margin-g.XLabelOffset, "middle").WithText(title))
}

// YTicks returns the floored tick values from 0 to maxValue
func YTicks(maxValue float64, n int) []float64 {
	spacing := maxValue / float64(n)
	ticks := make([]float64, n+1)
	for i := range ticks {
		ticks[i] = math.Floor(float64(i) * spacing)
	}
	return ticks
}

func (p *pass) axes() {
	g := p.geo

	p.doc.Append(line(g.Margin, g.Baseline, g.Width, g.Baseline))
	for i := range p.points {
		x := g.GroupX(i) + g.BarWidth + g.BarSpacing/2
		p.doc.Append(
			line(x, g.Baseline, x, g.Baseline-g.TickLength),
			text(x, g.Baseline+g.XLabelOffset, "middle"),
		)
	}
	p.doc.Append(text(g.Width/2, g.Height, "middle").WithText(g.XAxisTitle))

	p.doc.Append(line(g.Margin, g.Baseline, g.Margin, g.Margin))
	for _, tick := range YTicks(p.max, g.YTicks) {
		y := g.Baseline - g.BarHeight(tick, p.max)
		p.doc.Append(
			line(g.Margin-g.TickLength, y, g.Margin+g.TickLength, y),
			text(g.Margin+g.YLabelOffset, y, "end").
				Set("alignment-baseline", "middle").
				WithText(svg.Num(tick)),
		)
	}
	label := svg.NewElement("text")
	label.SetNum("x", g.Margin)
	label.SetNum("y", g.Margin-5)
	p.doc.Append(label.WithText(g.YAxisTitle))
}

func (p *pass) bars() {
	g := p.geo
	labelY := g.Baseline - g.Margin

	for i, item := range p.points {
		x := g.GroupX(i)

		p.doc.Append(
			p.bar(x, item.Value1, g.Series1Color),
			valueLabel(x+g.BarWidth/2, labelY, item.Value1),
			p.bar(x+g.BarWidth, item.Value2, g.Series2Color),
			valueLabel(x+g.BarWidth+g.BarWidth/2, labelY, item.Value2),
			text(x+g.BarWidth/2+g.BarSpacing, g.Baseline+2*g.XLabelOffset, "middle").
				Set("fill", "black").
				WithText(strconv.Itoa(item.Label)),
			text(x+g.BarWidth/2, g.Baseline+g.XLabelOffset, "middle").WithText(g.Series1Label),
			text(x+g.BarWidth*3/2, g.Baseline+g.XLabelOffset, "middle").WithText(g.Series2Label),
		)
	}
}

func (p *pass) bar(x, value float64, fill string) *svg.Element {
	g := p.geo
	h := g.BarHeight(value, p.max)
	rect := svg.NewElement("rect")
	rect.SetNum("x", x)
	rect.SetNum("y", g.Baseline-h)
	rect.SetNum("width", g.BarWidth-g.BarPadding)
	rect.SetNum("height", h)
	return rect.Set("fill", fill)
}

func valueLabel(x, y, value float64) *svg.Element {
	return text(x, y, "middle").
		Set("writing-mode", "tb-rl").
		Set("fill", "white").
		WithText(svg.Num(value))
}

func line(x1, y1, x2, y2 float64) *svg.Element {
	l := svg.NewElement("line")
	l.SetNum("x1", x1)
	l.SetNum("y1", y1)
	l.SetNum("x2", x2)
	l.SetNum("y2", y2)
	return l.Set("stroke", stroke)
}

func text(x, y float64, anchor string) *svg.Element {
	t := svg.NewElement("text")
	t.SetNum("x", x)
	t.SetNum("y", y)
	return t.Set("text-anchor", anchor)
}

package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"yearbars/domain/chart"
)

// SeriesSummary describes one column of counts
type SeriesSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Sum    float64 `json:"sum"`
}

// Summary holds per-series statistics for a chart's data
type Summary struct {
	Years     int             `json:"years"`
	FirstYear int             `json:"first_year"`
	LastYear  int             `json:"last_year"`
	Series    []SeriesSummary `json:"series"`
	PeakYear  int             `json:"peak_year"`
	PeakTotal float64         `json:"peak_total"`
	// MaleShare is the male fraction of the combined total
	MaleShare float64 `json:"male_share"`
}

// Summarize computes descriptive statistics, skipping NaN counts. Series
// with no readable counts report zeros, so the result always encodes as JSON.
func Summarize(points []chart.DataPoint, series1, series2 string) Summary {
	s := Summary{Years: len(points)}
	if len(points) == 0 {
		return s
	}
	s.FirstYear = points[0].Label
	s.LastYear = points[len(points)-1].Label

	var v1, v2, totals []float64
	s.PeakTotal = math.Inf(-1)
	for _, p := range points {
		if !math.IsNaN(p.Value1) {
			v1 = append(v1, p.Value1)
		}
		if !math.IsNaN(p.Value2) {
			v2 = append(v2, p.Value2)
		}
		if math.IsNaN(p.Value1) || math.IsNaN(p.Value2) {
			continue
		}
		total := p.Value1 + p.Value2
		totals = append(totals, total)
		if total > s.PeakTotal {
			s.PeakTotal = total
			s.PeakYear = p.Label
		}
	}
	if len(totals) == 0 {
		s.PeakTotal = 0
	}

	s.Series = []SeriesSummary{
		summarizeSeries(series1, v1),
		summarizeSeries(series2, v2),
		summarizeSeries("Total", totals),
	}
	if total := s.Series[2].Sum; total > 0 {
		var male float64
		for _, p := range points {
			if !math.IsNaN(p.Value1) && !math.IsNaN(p.Value2) {
				male += p.Value1
			}
		}
		s.MaleShare = male / total
	}
	return s
}

func summarizeSeries(name string, values []float64) SeriesSummary {
	out := SeriesSummary{Name: name, Count: len(values)}
	if len(values) == 0 {
		return out
	}

	out.Min, _ = stats.Min(values)
	out.Max, _ = stats.Max(values)
	out.Sum, _ = stats.Sum(values)
	out.Mean, out.StdDev = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		out.StdDev = 0
	}
	return out
}

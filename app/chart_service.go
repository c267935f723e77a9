package app

import (
	"context"
	"time"

	"yearbars/domain/chart"
	"yearbars/internal"
	"yearbars/internal/analysis"
	apperrors "yearbars/internal/errors"
	"yearbars/internal/extract"
	"yearbars/internal/render"
	"yearbars/internal/svg"
	"yearbars/ports"
)

// ChartResult is the output of one pipeline run
type ChartResult struct {
	Source   string
	Title    string
	Points   []chart.DataPoint
	Document *svg.Document
	Duration time.Duration
}

// ChartService runs load -> parse -> extract -> render
type ChartService struct {
	parser    ports.SheetParser
	extractor *extract.Extractor
	renderer  *render.Renderer
	logger    *internal.Logger
}

// NewChartService wires the pipeline stages
func NewChartService(parser ports.SheetParser, extractor *extract.Extractor, renderer *render.Renderer) *ChartService {
	return &ChartService{
		parser:    parser,
		extractor: extractor,
		renderer:  renderer,
		logger:    internal.DefaultLogger.With("ChartService"),
	}
}

// Extract loads and parses a source and returns its title and data points
func (s *ChartService) Extract(ctx context.Context, src ports.ByteSource) (string, []chart.DataPoint, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return "", nil, err
	}

	raw, err := s.parser.ReadBytes(data, src.Name())
	if err != nil {
		return "", nil, apperrors.Wrapf(err, "failed to parse %s", src.Name())
	}

	points, err := s.extractor.Extract(raw)
	if err != nil {
		return "", nil, apperrors.Wrapf(err, "failed to extract data from %s", src.Name())
	}
	return s.extractor.Title(raw), points, nil
}

// Render runs the whole pipeline for one source
func (s *ChartService) Render(ctx context.Context, src ports.ByteSource) (*ChartResult, error) {
	start := time.Now()

	title, points, err := s.Extract(ctx, src)
	if err != nil {
		s.logger.Warn("%s: %v", src.Name(), err)
		return nil, err
	}

	doc, err := s.renderer.Render(points, title)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to render %s", src.Name())
	}

	result := &ChartResult{
		Source:   src.Name(),
		Title:    title,
		Points:   points,
		Document: doc,
		Duration: time.Since(start),
	}
	s.logger.Info("rendered %s: %d categories in %.2fms", src.Name(), len(points), float64(result.Duration.Nanoseconds())/1e6)
	return result, nil
}

// Summarize extracts a source and computes per-series statistics
func (s *ChartService) Summarize(ctx context.Context, src ports.ByteSource) (string, analysis.Summary, error) {
	title, points, err := s.Extract(ctx, src)
	if err != nil {
		return "", analysis.Summary{}, err
	}
	layout := s.renderer.Layout()
	return title, analysis.Summarize(points, layout.Series1Label, layout.Series2Label), nil
}

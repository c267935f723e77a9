package container

import (
	"fmt"

	"yearbars/adapters/coercer"
	"yearbars/adapters/excel"
	"yearbars/app"
	"yearbars/internal"
	"yearbars/internal/config"
	"yearbars/internal/extract"
	"yearbars/internal/render"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Reader    *excel.DataReader
	Extractor *extract.Extractor
	Renderer  *render.Renderer
	Charts    *app.ChartService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	c := &Container{
		Config:    cfg,
		Logger:    internal.DefaultLogger,
		Reader:    excel.NewDataReader(coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())),
		Extractor: extract.NewExtractor(cfg.Chart.Extract),
		Renderer:  render.NewRenderer(cfg.Chart.Layout),
	}
	c.Charts = app.NewChartService(c.Reader, c.Extractor, c.Renderer)

	return c, nil
}

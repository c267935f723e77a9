package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"

	"yearbars/adapters/excel"
	"yearbars/app"
	"yearbars/ui/middleware"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Server represents the web server for the chart UI
type Server struct {
	router    *gin.Engine
	charts    *app.ChartService
	templates *template.Template
	help      template.HTML
	maxUpload int64
}

// Options configures the server
type Options struct {
	MaxUploadBytes int64
}

// NewServer creates a new web server instance
func NewServer(charts *app.ChartService, opts Options) (*Server, error) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 * 1024 * 1024
	}

	s := &Server{
		router:    gin.New(),
		charts:    charts,
		maxUpload: opts.MaxUploadBytes,
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"ms": func(d time.Duration) string {
			return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	helpMD, err := embeddedFiles.ReadFile("static/help.md")
	if err != nil {
		return fmt.Errorf("failed to read help text: %w", err)
	}
	// help.md is embedded at build time, not user input
	s.help = template.HTML(markdown.ToHTML(helpMD, nil, nil))

	log.Printf("[TemplateInit] Parsed templates: %s", templates.DefinedTemplates())
	return nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/chart", s.handleChartPage)

	api := s.router.Group("/api")
	api.POST("/chart.svg", s.handleChartSVG)
	api.POST("/summary", s.handleSummary)

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting yearbars UI on http://%s", addr)
	return s.router.Run(addr)
}

// pageData feeds templates/index.html
type pageData struct {
	Accept string
	Help   template.HTML
	Error  string
	Chart  *app.ChartResult
	SVG    template.HTML
}

func (s *Server) newPage() pageData {
	return pageData{
		Accept: strings.Join(excel.SupportedExtensions, ","),
		Help:   s.help,
	}
}

func (s *Server) renderPage(c *gin.Context, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.Printf("[renderPage] Template error: %v", err)
		c.String(http.StatusInternalServerError, "Template error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

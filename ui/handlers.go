package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"yearbars/adapters/excel"
	"yearbars/app"
	apperrors "yearbars/internal/errors"
	"yearbars/ui/middleware"
)

// uploadField is the multipart field carrying the spreadsheet
const uploadField = "file"

func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, http.StatusOK, s.newPage())
}

// handleChartPage renders the uploaded sheet inline in the page
func (s *Server) handleChartPage(c *gin.Context) {
	page := s.newPage()

	result, err := s.renderUpload(c)
	if err != nil {
		page.Error = err.Error()
		s.renderPage(c, statusFor(err), page)
		return
	}

	var buf bytes.Buffer
	if _, err := result.Document.WriteTo(&buf); err != nil {
		log.Printf("[handleChartPage] FAILED - writing SVG: %v", err)
		page.Error = "Failed to write chart"
		s.renderPage(c, http.StatusInternalServerError, page)
		return
	}

	page.Chart = result
	// markup comes from the svg encoder, which escapes all sheet text
	page.SVG = template.HTML(buf.String())
	s.renderPage(c, http.StatusOK, page)
}

// handleChartSVG returns the chart as a standalone SVG file
func (s *Server) handleChartSVG(c *gin.Context) {
	result, err := s.renderUpload(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := result.Document.WriteStandalone(&buf); err != nil {
		s.jsonError(c, apperrors.Wrap(err, "failed to write chart"))
		return
	}

	name := strings.TrimSuffix(result.Source, filepath.Ext(result.Source)) + ".svg"
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// handleSummary returns per-series statistics as JSON
func (s *Server) handleSummary(c *gin.Context) {
	src, err := s.uploadSource(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	defer src.Close()

	title, summary, err := s.charts.Summarize(c.Request.Context(), src.ReaderSource)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": title, "summary": summary})
}

func (s *Server) renderUpload(c *gin.Context) (*app.ChartResult, error) {
	src, err := s.uploadSource(c)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return s.charts.Render(c.Request.Context(), src.ReaderSource)
}

type uploadSource struct {
	app.ReaderSource
	closer interface{ Close() error }
}

func (u uploadSource) Close() {
	if u.closer != nil {
		u.closer.Close()
	}
}

// uploadSource validates the multipart upload and wraps it as a byte source
func (s *Server) uploadSource(c *gin.Context) (uploadSource, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+1<<20)

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		log.Printf("[uploadSource] FAILED - No file uploaded: %v", err)
		return uploadSource{}, apperrors.InvalidInput("no file uploaded")
	}

	if header.Size > s.maxUpload {
		file.Close()
		log.Printf("[uploadSource] FAILED - File too large: %d bytes", header.Size)
		return uploadSource{}, apperrors.InvalidInputf("file size (%.1f MB) exceeds the %.0f MB limit",
			float64(header.Size)/(1024*1024), float64(s.maxUpload)/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(excel.SupportedExtensions, ext) {
		file.Close()
		log.Printf("[uploadSource] FAILED - Invalid file extension: %s", header.Filename)
		return uploadSource{}, apperrors.UnsupportedFormat(ext)
	}

	log.Printf("[uploadSource] %s accepted (%d bytes, request %s)", header.Filename, header.Size, c.GetString(middleware.RequestIDKey))
	return uploadSource{
		ReaderSource: app.ReaderSource{Filename: filepath.Base(header.Filename), Reader: file, Limit: s.maxUpload},
		closer:       file,
	}, nil
}

func (s *Server) jsonError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"error":      err.Error(),
		"code":       apperrors.GetCode(err),
		"request_id": c.GetString(middleware.RequestIDKey),
	})
}

// statusFor maps error codes to HTTP statuses
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput, apperrors.CodeUnsupportedFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

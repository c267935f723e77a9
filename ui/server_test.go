package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yearbars/adapters/excel"
	"yearbars/app"
	"yearbars/domain/chart"
	"yearbars/internal/extract"
	"yearbars/internal/render"
	"yearbars/internal/testkit"
	"yearbars/ui/middleware"
)

func newTestServer(t *testing.T, maxUpload int64) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := chart.DefaultExtractConfig()
	cfg.Strict = true
	charts := app.NewChartService(excel.NewDataReader(nil), extract.NewExtractor(cfg), render.NewRenderer(chart.DefaultLayout()))

	s, err := NewServer(charts, Options{MaxUploadBytes: maxUpload})
	require.NoError(t, err)
	return s
}

func uploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(uploadField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func workbookBytes(t *testing.T) (testkit.WorkbookSpec, []byte) {
	t.Helper()
	spec := testkit.DefaultSpec(99)
	data, err := testkit.WorkbookBytes(spec)
	require.NoError(t, err)
	return spec, data
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, 0)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `type="file"`)
	assert.Contains(t, body, `accept=".xlsx,.xlsm,.xltx,.xltm,.csv"`)
	assert.Contains(t, body, "How it works")
	assert.Contains(t, body, "<table>")
	assert.NotContains(t, body, "<svg")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestChartPageInlinesSVG(t *testing.T) {
	s := newTestServer(t, 0)
	spec, data := workbookBytes(t)

	rec := serve(s, uploadRequest(t, "/chart", "suicides.xlsx", data))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<svg xmlns="http://www.w3.org/2000/svg" width="1600" height="800">`)
	assert.Contains(t, body, spec.Title)
	assert.Equal(t, 46, strings.Count(body, "<rect "))
	assert.Contains(t, body, "suicides.xlsx: 23 years")
}

func TestChartPageShowsError(t *testing.T) {
	s := newTestServer(t, 0)

	rec := serve(s, uploadRequest(t, "/chart", "short.csv", []byte("a,b,c\n")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="error"`)
	assert.NotContains(t, rec.Body.String(), "<svg")
}

func TestChartSVGEndpoint(t *testing.T) {
	s := newTestServer(t, 0)
	_, data := workbookBytes(t)

	rec := serve(s, uploadRequest(t, "/api/chart.svg", "suicides.xlsx", data))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="suicides.svg"`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<?xml"))
}

func TestChartSVGErrors(t *testing.T) {
	s := newTestServer(t, 1024)

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
		wantErr  string
	}{
		{"unsupported extension", uploadRequest(t, "/api/chart.svg", "data.ods", []byte("x")), http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{"too large", uploadRequest(t, "/api/chart.svg", "data.csv", bytes.Repeat([]byte("1,"), 1024)), http.StatusBadRequest, "INVALID_INPUT"},
		{"no file", httptest.NewRequest(http.MethodPost, "/api/chart.svg", nil), http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req)
			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body["code"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t, 0)
	spec, data := workbookBytes(t)

	rec := serve(s, uploadRequest(t, "/api/summary", "suicides.xlsx", data))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Title   string `json:"title"`
		Summary struct {
			Years    int `json:"years"`
			LastYear int `json:"last_year"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, spec.Title, body.Title)
	assert.Equal(t, 23, body.Summary.Years)
	assert.Equal(t, 2019, body.Summary.LastYear)
}

func TestEachUploadIsIndependent(t *testing.T) {
	s := newTestServer(t, 0)
	_, data := workbookBytes(t)

	first := serve(s, uploadRequest(t, "/api/chart.svg", "a.xlsx", data))
	second := serve(s, uploadRequest(t, "/api/chart.svg", "a.xlsx", data))

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, strings.Count(second.Body.String(), "<svg "))
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "0191d1d4-9c2a-7c1e-8a5e-3f1b2c4d5e6f")
	rec := serve(s, req)
	assert.Equal(t, "0191d1d4-9c2a-7c1e-8a5e-3f1b2c4d5e6f", rec.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.RequestIDHeader, "not-a-uuid")
	rec = serve(s, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, http.StatusOK, rec.Code)
}

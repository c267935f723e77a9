package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yearbars/adapters/coercer"
	"yearbars/domain/sheet"
	apperrors "yearbars/internal/errors"

	"github.com/xuri/excelize/v2"
)

// FileType is the spreadsheet container format
type FileType string

const (
	FileTypeXLSX FileType = "xlsx"
	FileTypeCSV  FileType = "csv"
)

var zipMagic = []byte("PK\x03\x04")

// SupportedExtensions lists the file extensions the reader accepts
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xltx", ".xltm", ".csv"}

// DataReader parses the first sheet of Excel workbooks and CSV files
type DataReader struct {
	coercer *coercer.TypeCoercer
}

// NewDataReader creates a reader that types cells with the given coercer
func NewDataReader(c *coercer.TypeCoercer) *DataReader {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &DataReader{coercer: c}
}

// DetectFileType picks the format from the file name, sniffing the content
// for a zip header when the extension is missing.
func DetectFileType(filename string, head []byte) (FileType, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FileTypeXLSX, nil
	case ".csv":
		return FileTypeCSV, nil
	case "":
		if bytes.HasPrefix(head, zipMagic) {
			return FileTypeXLSX, nil
		}
		return "", apperrors.UnsupportedFormat("unknown (no extension)")
	}
	return "", apperrors.UnsupportedFormat(ext)
}

// ReadFile opens a file from disk and parses it
func (r *DataReader) ReadFile(path string) (*sheet.RawSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read %s", path)
	}
	return r.ReadBytes(data, filepath.Base(path))
}

// ReadBytes parses spreadsheet content; filename only drives format detection
func (r *DataReader) ReadBytes(data []byte, filename string) (*sheet.RawSheet, error) {
	fileType, err := DetectFileType(filename, data)
	if err != nil {
		return nil, err
	}

	log.Printf("[DataReader] Parsing %s file: %s (%d bytes)", fileType, filename, len(data))
	switch fileType {
	case FileTypeCSV:
		return r.readCSVData(bytes.NewReader(data), filename)
	default:
		return r.readExcelData(bytes.NewReader(data))
	}
}

// readExcelData reads the workbook's first sheet with unformatted cell values
func (r *DataReader) readExcelData(src io.Reader) (*sheet.RawSheet, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidInput, "failed to open Excel workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.InvalidInput("workbook has no sheets")
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidInput, fmt.Sprintf("failed to read sheet %q", sheetName))
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", sheetName, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(sheetName, rows), nil
}

// readCSVData reads CSV data; ragged rows are allowed
func (r *DataReader) readCSVData(src io.Reader, filename string) (*sheet.RawSheet, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidInput, "failed to read CSV file")
	}
	log.Printf("[DataReader] CSV file read (%d rows)", len(rows))

	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	return r.processRows(name, rows), nil
}

// processRows converts raw string rows into typed cells
func (r *DataReader) processRows(name string, rows [][]string) *sheet.RawSheet {
	out := &sheet.RawSheet{Name: name, Rows: make([]sheet.Row, len(rows))}
	for i, row := range rows {
		out.Rows[i] = r.coercer.CoerceRow(row)
	}
	return out
}

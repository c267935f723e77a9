package ports

import (
	"context"

	"yearbars/domain/sheet"
)

// ByteSource delivers the raw bytes of a user-chosen spreadsheet.
// Load is the pipeline's only blocking step and must honor ctx.
type ByteSource interface {
	// Name is the file name used for format detection and logging
	Name() string
	Load(ctx context.Context) ([]byte, error)
}

// SheetParser turns spreadsheet bytes into the first sheet's typed rows
type SheetParser interface {
	ReadBytes(data []byte, filename string) (*sheet.RawSheet, error)
}

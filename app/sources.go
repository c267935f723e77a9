package app

import (
	"context"
	"io"
	"os"
	"path/filepath"

	apperrors "yearbars/internal/errors"
)

// FileSource loads a spreadsheet from disk
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return filepath.Base(s.Path) }

// Load reads the whole file
func (s FileSource) Load(ctx context.Context) ([]byte, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to open %s", s.Path)
	}
	defer f.Close()
	return ReaderSource{Filename: s.Name(), Reader: f}.Load(ctx)
}

// ReaderSource loads a spreadsheet from a stream such as an upload.
// A positive Limit caps the number of bytes read.
type ReaderSource struct {
	Filename string
	Reader   io.Reader
	Limit    int64
}

func (s ReaderSource) Name() string { return s.Filename }

// Load reads until EOF, stopping early when ctx is done
func (s ReaderSource) Load(ctx context.Context) ([]byte, error) {
	var r io.Reader = &ctxReader{ctx: ctx, r: s.Reader}
	if s.Limit > 0 {
		r = io.LimitReader(r, s.Limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read %s", s.Filename)
	}
	if s.Limit > 0 && int64(len(data)) > s.Limit {
		return nil, apperrors.InvalidInputf("%s exceeds the %d byte limit", s.Filename, s.Limit)
	}
	return data, nil
}

// BytesSource wraps content that is already in memory
type BytesSource struct {
	Filename string
	Data     []byte
}

func (s BytesSource) Name() string { return s.Filename }

func (s BytesSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, "load cancelled")
	}
	return s.Data, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := InvalidInput("row 12 is empty")
	wrapped := Wrap(base, "extraction failed")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Equal(t, "extraction failed: row 12 is empty", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrapf(io.ErrUnexpectedEOF, "reading %s", "data.xlsx")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("upload: %w", UnsupportedFormat(".ods"))

	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeUnsupportedFormat, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(io.EOF))
}

func TestWrapWithCode(t *testing.T) {
	err := WrapWithCode(io.ErrUnexpectedEOF, CodeInvalidInput, "failed to open Excel workbook")

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "failed to open Excel workbook: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Nil(t, WrapWithCode(nil, CodeInvalidInput, "ignored"))
}

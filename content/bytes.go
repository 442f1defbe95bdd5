package content

import (
	"bytes"
	"fmt"
	"io"

	"github.com/meigma/bodyio/source"
)

// Bytes is typed content held in memory.
type Bytes struct {
	mimeType string
	data     []byte
}

// Interface compliance.
var (
	_ Input  = (*Bytes)(nil)
	_ Output = (*Bytes)(nil)
)

// NewBytes creates in-memory content labelled mimeType. data is not copied.
func NewBytes(mimeType string, data []byte) (*Bytes, error) {
	if mimeType == "" {
		return nil, fmt.Errorf("%w: empty mime type", ErrInvalidArgument)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", ErrInvalidArgument)
	}
	return &Bytes{mimeType: mimeType, data: data}, nil
}

// NewString creates UTF-8 plain text content.
func NewString(s string) *Bytes {
	return &Bytes{mimeType: "text/plain; charset=UTF-8", data: []byte(s)}
}

// Bytes returns the underlying data.
func (b *Bytes) Bytes() []byte {
	return b.data
}

// MimeType returns the media type given at construction.
func (b *Bytes) MimeType() string { return b.mimeType }

// Length returns the number of bytes held.
func (b *Bytes) Length() int64 { return int64(len(b.data)) }

// FileName returns "": in-memory content has no file name.
func (b *Bytes) FileName() string { return "" }

// Open returns a source over the data.
func (b *Bytes) Open() (source.ByteSource, error) {
	return source.New(bytes.NewReader(b.data)), nil
}

// WriteTo writes the data to w.
func (b *Bytes) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}

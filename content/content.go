// Package content defines typed content: a byte stream paired with a media
// type label. Input is the read role, Output the write role.
package content

import (
	"io"

	"github.com/meigma/bodyio/source"
)

// DefaultMimeType labels content whose type is not otherwise known.
const DefaultMimeType = "application/octet-stream"

// Input is typed content that can be opened for reading.
type Input interface {
	// MimeType returns the media type label. It is never empty.
	MimeType() string

	// Length returns the size in bytes, or -1 if it is not known in advance.
	Length() int64

	// Open acquires a readable stream. The caller must close it.
	Open() (source.ByteSource, error)
}

// Output is typed content that can be streamed to a sink.
type Output interface {
	// MimeType returns the media type label. It is never empty.
	MimeType() string

	// Length returns the size in bytes, or -1 if it is not known in advance.
	Length() int64

	// FileName returns an advisory file name, used for example by multipart
	// parts, or "" if none applies.
	FileName() string

	// WriteTo streams the entire content to w.
	WriteTo(w io.Writer) (int64, error)
}

package bodyio

import (
	"github.com/meigma/bodyio/body"
	"github.com/meigma/bodyio/content"
	"github.com/meigma/bodyio/http"
	"github.com/meigma/bodyio/source"
)

// Errors re-exported from content.
var (
	// ErrInvalidArgument is returned when content is constructed without a
	// required label or path.
	ErrInvalidArgument = content.ErrInvalidArgument

	// ErrTypeMismatch is returned when moving between contents of different
	// media types.
	ErrTypeMismatch = content.ErrTypeMismatch

	// ErrRename is returned when the filesystem rejects an atomic rename.
	ErrRename = content.ErrRename
)

// Errors re-exported from source.
var (
	// ErrClosed is returned by operations on a closed source.
	ErrClosed = source.ErrClosed

	// ErrNegativeCount is returned when a byte count or offset is negative.
	ErrNegativeCount = source.ErrNegativeCount

	// ErrTruncated is returned when a complete stream ends partway through a
	// fixed-size read. It matches io.ErrUnexpectedEOF.
	ErrTruncated = source.ErrTruncated
)

// Errors re-exported from http.
var (
	// ErrConsumed is returned when a response body is opened twice.
	ErrConsumed = http.ErrConsumed

	// ErrUnsupportedEncoding is returned for an undecodable Content-Encoding.
	ErrUnsupportedEncoding = http.ErrUnsupportedEncoding
)

// Errors re-exported from body.
var (
	// ErrTransport is matched by failures attributed to the transport.
	ErrTransport = body.ErrTransport

	// ErrConversion is matched by failures attributed to the converter.
	ErrConversion = body.ErrConversion
)

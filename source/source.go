// Package source defines ByteSource, a buffered forward-only byte stream with
// structured reads and search, and Buffered, its implementation over any
// io.Reader.
package source

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/encoding"
)

// Sentinel errors for source operations.
var (
	// ErrClosed is returned by operations on a closed source.
	ErrClosed = errors.New("bodyio: source closed")

	// ErrNegativeCount is returned when a byte count or offset is negative.
	ErrNegativeCount = errors.New("bodyio: negative byte count")

	// ErrTruncated is returned when the stream ends cleanly partway through
	// a fixed-size read, a Skip or a strict line. It matches
	// io.ErrUnexpectedEOF. An io.ErrUnexpectedEOF produced by the underlying
	// reader itself is returned as is and does not match ErrTruncated.
	ErrTruncated = fmt.Errorf("bodyio: stream ended early: %w", io.ErrUnexpectedEOF)
)

// ByteSource is a buffered, positional byte stream.
//
// The read position only moves forward. Fixed-size reads return io.EOF when
// the stream ends before any byte is available and ErrTruncated when it
// ends partway through. Numeric reads without a suffix are big-endian; the LE
// variants are little-endian.
type ByteSource interface {
	io.Reader
	io.ByteReader
	io.WriterTo
	io.Closer

	// Exhausted reports whether no more bytes can be read.
	Exhausted() (bool, error)
	// Require buffers at least n bytes or fails.
	Require(n int64) error
	// Request buffers at least n bytes and reports whether it could.
	Request(n int64) (bool, error)

	// ReadN reads exactly n bytes.
	ReadN(n int64) ([]byte, error)
	// ReadAll reads until the end of the stream.
	ReadAll() ([]byte, error)
	// ReadFull fills p completely.
	ReadFull(p []byte) error

	ReadInt16() (int16, error)
	ReadInt16LE() (int16, error)
	ReadInt32() (int32, error)
	ReadInt32LE() (int32, error)
	ReadInt64() (int64, error)
	ReadInt64LE() (int64, error)

	// Skip discards exactly n bytes.
	Skip(n int64) error

	// IndexByte returns the offset of c relative to the read position,
	// searching from offset from. It returns -1 if the stream ends first.
	IndexByte(c byte, from int64) (int64, error)
	// Index returns the offset of seq, searching from offset from.
	Index(seq []byte, from int64) (int64, error)
	// IndexAny returns the offset of the first byte contained in set.
	IndexAny(set []byte, from int64) (int64, error)

	// Buffered returns the bytes buffered but not yet consumed. It performs
	// no I/O and the slice is only valid until the next operation.
	Buffered() []byte

	// ReadLine reads a line without its "\n" or "\r\n" terminator. The final
	// line may be unterminated. It returns io.EOF once the stream is empty.
	ReadLine() (string, error)
	// ReadLineStrict is like ReadLine but fails if no terminator is found.
	ReadLineStrict() (string, error)
	// ReadDelim reads up to and including delim. If the stream ends first it
	// returns the remaining bytes together with io.EOF.
	ReadDelim(delim byte) ([]byte, error)

	// ReadUTF8 reads n bytes as UTF-8 text, or everything if n is negative.
	ReadUTF8(n int64) (string, error)
	// ReadString reads n bytes (everything if n is negative) decoded with enc.
	ReadString(n int64, enc encoding.Encoding) (string, error)

	// Reader returns a plain io.Reader view over the stream.
	Reader() io.Reader
	// Deadline returns the deadline configured by the transport, if any.
	Deadline() (time.Time, bool)
}

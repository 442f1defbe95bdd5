// Package fault provides a ByteSource decorator that remembers the first I/O
// failure seen while a body is consumed.
//
// A converter that fails while reading a response body only reports that it
// failed. Wrapping the body in a Source lets the caller ask afterwards whether
// the transport faulted underneath the converter, and report a transport
// error instead of a conversion error when it did.
package fault

import (
	"errors"
	"io"
	"time"

	"golang.org/x/text/encoding"

	"github.com/meigma/bodyio/source"
)

// Source forwards every operation to a delegate ByteSource and records the
// first fault any of them returns. Values and errors are passed through
// unchanged.
//
// A Source is not safe for concurrent use.
type Source struct {
	delegate source.ByteSource
	isFault  func(error) bool
	err      error
}

// Interface compliance.
var _ source.ByteSource = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithFaultFilter sets the predicate deciding which errors are recorded.
// The default is IsFault.
func WithFaultFilter(isFault func(error) bool) Option {
	return func(s *Source) {
		if isFault != nil {
			s.isFault = isFault
		}
	}
}

// IsFault is the default fault predicate. A clean end of stream is not a
// fault, whether a read finds it at a field boundary (io.EOF) or partway
// through one (source.ErrTruncated). Anything else is, including an
// io.ErrUnexpectedEOF reported by the transport itself.
func IsFault(err error) bool {
	return err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, source.ErrTruncated)
}

// NewSource wraps delegate.
func NewSource(delegate source.ByteSource, opts ...Option) *Source {
	s := &Source{
		delegate: delegate,
		isFault:  IsFault,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fault returns the first recorded fault, or nil if none occurred.
func (s *Source) Fault() error {
	return s.err
}

// Faulted reports whether any fault has been recorded.
func (s *Source) Faulted() bool {
	return s.err != nil
}

// track records err if it is the first fault and returns it unchanged.
func (s *Source) track(err error) error {
	if err != nil && s.err == nil && s.isFault(err) {
		s.err = err
	}
	return err
}

// Exhausted forwards to the delegate and records a fault.
func (s *Source) Exhausted() (bool, error) {
	ok, err := s.delegate.Exhausted()
	return ok, s.track(err)
}

// Require forwards to the delegate and records a fault.
func (s *Source) Require(n int64) error {
	return s.track(s.delegate.Require(n))
}

// Request forwards to the delegate and records a fault.
func (s *Source) Request(n int64) (bool, error) {
	ok, err := s.delegate.Request(n)
	return ok, s.track(err)
}

// Read forwards to the delegate and records a fault.
func (s *Source) Read(p []byte) (int, error) {
	n, err := s.delegate.Read(p)
	return n, s.track(err)
}

// ReadByte forwards to the delegate and records a fault.
func (s *Source) ReadByte() (byte, error) {
	c, err := s.delegate.ReadByte()
	return c, s.track(err)
}

// ReadN forwards to the delegate and records a fault.
func (s *Source) ReadN(n int64) ([]byte, error) {
	p, err := s.delegate.ReadN(n)
	return p, s.track(err)
}

// ReadAll forwards to the delegate and records a fault.
func (s *Source) ReadAll() ([]byte, error) {
	p, err := s.delegate.ReadAll()
	return p, s.track(err)
}

// ReadFull forwards to the delegate and records a fault.
func (s *Source) ReadFull(p []byte) error {
	return s.track(s.delegate.ReadFull(p))
}

// ReadInt16 forwards to the delegate and records a fault.
func (s *Source) ReadInt16() (int16, error) {
	v, err := s.delegate.ReadInt16()
	return v, s.track(err)
}

// ReadInt16LE forwards to the delegate and records a fault.
func (s *Source) ReadInt16LE() (int16, error) {
	v, err := s.delegate.ReadInt16LE()
	return v, s.track(err)
}

// ReadInt32 forwards to the delegate and records a fault.
func (s *Source) ReadInt32() (int32, error) {
	v, err := s.delegate.ReadInt32()
	return v, s.track(err)
}

// ReadInt32LE forwards to the delegate and records a fault.
func (s *Source) ReadInt32LE() (int32, error) {
	v, err := s.delegate.ReadInt32LE()
	return v, s.track(err)
}

// ReadInt64 forwards to the delegate and records a fault.
func (s *Source) ReadInt64() (int64, error) {
	v, err := s.delegate.ReadInt64()
	return v, s.track(err)
}

// ReadInt64LE forwards to the delegate and records a fault.
func (s *Source) ReadInt64LE() (int64, error) {
	v, err := s.delegate.ReadInt64LE()
	return v, s.track(err)
}

// Skip forwards to the delegate and records a fault.
func (s *Source) Skip(n int64) error {
	return s.track(s.delegate.Skip(n))
}

// IndexByte forwards to the delegate and records a fault.
func (s *Source) IndexByte(c byte, from int64) (int64, error) {
	i, err := s.delegate.IndexByte(c, from)
	return i, s.track(err)
}

// Index forwards to the delegate and records a fault.
func (s *Source) Index(seq []byte, from int64) (int64, error) {
	i, err := s.delegate.Index(seq, from)
	return i, s.track(err)
}

// IndexAny forwards to the delegate and records a fault.
func (s *Source) IndexAny(set []byte, from int64) (int64, error) {
	i, err := s.delegate.IndexAny(set, from)
	return i, s.track(err)
}

// Buffered performs no I/O and is forwarded untracked.
func (s *Source) Buffered() []byte {
	return s.delegate.Buffered()
}

// WriteTo forwards to the delegate and records a fault.
func (s *Source) WriteTo(w io.Writer) (int64, error) {
	n, err := s.delegate.WriteTo(w)
	return n, s.track(err)
}

// ReadLine forwards to the delegate and records a fault.
func (s *Source) ReadLine() (string, error) {
	line, err := s.delegate.ReadLine()
	return line, s.track(err)
}

// ReadLineStrict forwards to the delegate and records a fault.
func (s *Source) ReadLineStrict() (string, error) {
	line, err := s.delegate.ReadLineStrict()
	return line, s.track(err)
}

// ReadDelim forwards to the delegate and records a fault.
func (s *Source) ReadDelim(delim byte) ([]byte, error) {
	p, err := s.delegate.ReadDelim(delim)
	return p, s.track(err)
}

// ReadUTF8 forwards to the delegate and records a fault.
func (s *Source) ReadUTF8(n int64) (string, error) {
	str, err := s.delegate.ReadUTF8(n)
	return str, s.track(err)
}

// ReadString forwards to the delegate and records a fault.
func (s *Source) ReadString(n int64, enc encoding.Encoding) (string, error) {
	str, err := s.delegate.ReadString(n, enc)
	return str, s.track(err)
}

type trackedReader struct {
	s  *Source
	rd io.Reader
}

func (r trackedReader) Read(p []byte) (int, error) {
	n, err := r.rd.Read(p)
	return n, r.s.track(err)
}

// Reader returns the delegate's reader view with reads through it tracked
// like every other operation.
func (s *Source) Reader() io.Reader {
	return trackedReader{s: s, rd: s.delegate.Reader()}
}

// Deadline is owned by the transport and forwarded untouched.
func (s *Source) Deadline() (time.Time, bool) {
	return s.delegate.Deadline()
}

// Close is forwarded on every call; a failing Close is recorded like any
// other fault.
func (s *Source) Close() error {
	return s.track(s.delegate.Close())
}

package source

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding"
)

const (
	// DefaultBufferSize is the number of bytes requested per read from the
	// underlying reader.
	DefaultBufferSize = 8 << 10

	maxConsecutiveEmptyReads = 100
)

// Buffered implements ByteSource over an io.Reader.
// It is not safe for concurrent use.
type Buffered struct {
	rd   io.Reader
	buf  []byte
	r    int
	err  error
	size int

	deadline    time.Time
	hasDeadline bool
	closed      bool
}

// Interface compliance.
var _ ByteSource = (*Buffered)(nil)

// Option configures a Buffered source.
type Option func(*Buffered)

// WithBufferSize sets how many bytes are requested from the underlying
// reader at a time. Values <= 0 select DefaultBufferSize.
func WithBufferSize(n int) Option {
	return func(b *Buffered) {
		b.size = n
	}
}

// WithDeadline attaches a transport deadline. The source never interprets
// it; Deadline simply reports it.
func WithDeadline(t time.Time) Option {
	return func(b *Buffered) {
		b.deadline = t
		b.hasDeadline = true
	}
}

// New creates a Buffered source reading from rd.
// If rd implements io.Closer, Close closes it.
func New(rd io.Reader, opts ...Option) *Buffered {
	b := &Buffered{rd: rd}
	for _, opt := range opts {
		opt(b)
	}
	if b.size <= 0 {
		b.size = DefaultBufferSize
	}
	return b
}

func (b *Buffered) buffered() int {
	return len(b.buf) - b.r
}

// makeRoom ensures at least b.size bytes of spare capacity, compacting
// consumed bytes before growing.
func (b *Buffered) makeRoom() {
	if cap(b.buf)-len(b.buf) >= b.size {
		return
	}
	n := b.buffered()
	if b.r > 0 && cap(b.buf)-n >= b.size {
		copy(b.buf, b.buf[b.r:])
		b.buf = b.buf[:n]
		b.r = 0
		return
	}
	nb := make([]byte, n, 2*cap(b.buf)+b.size)
	copy(nb, b.buf[b.r:])
	b.buf = nb
	b.r = 0
}

// fill reads at least one more byte into the buffer.
// Read errors are sticky and reported once the buffered bytes are drained
// by the caller.
func (b *Buffered) fill() error {
	if b.closed {
		return ErrClosed
	}
	if b.err != nil {
		return b.err
	}
	if b.r == len(b.buf) {
		b.buf = b.buf[:0]
		b.r = 0
	}
	b.makeRoom()

	for range maxConsecutiveEmptyReads {
		n, err := b.rd.Read(b.buf[len(b.buf):cap(b.buf)])
		if n < 0 {
			panic("bodyio: reader returned negative count from Read")
		}
		b.buf = b.buf[:len(b.buf)+n]
		if err != nil {
			b.err = err
			if n > 0 {
				return nil
			}
			return err
		}
		if n > 0 {
			return nil
		}
	}
	b.err = io.ErrNoProgress
	return b.err
}

// Request implements ByteSource.
func (b *Buffered) Request(n int64) (bool, error) {
	if n < 0 {
		return false, fmt.Errorf("request %d: %w", n, ErrNegativeCount)
	}
	if b.closed {
		return false, ErrClosed
	}
	for int64(b.buffered()) < n {
		if err := b.fill(); err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// Require implements ByteSource.
func (b *Buffered) Require(n int64) error {
	ok, err := b.Request(n)
	if err != nil {
		return err
	}
	if !ok {
		return b.shortErr()
	}
	return nil
}

// shortErr reports a fixed-size read that hit the clean end of the stream.
func (b *Buffered) shortErr() error {
	if b.buffered() == 0 {
		return io.EOF
	}
	return ErrTruncated
}

// Exhausted implements ByteSource.
func (b *Buffered) Exhausted() (bool, error) {
	ok, err := b.Request(1)
	return !ok, err
}

// Read implements io.Reader.
func (b *Buffered) Read(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if b.buffered() == 0 {
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, b.buf[b.r:])
	b.r += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (b *Buffered) ReadByte() (byte, error) {
	if err := b.Require(1); err != nil {
		return 0, err
	}
	c := b.buf[b.r]
	b.r++
	return c, nil
}

// next consumes n buffered bytes. Callers must Require them first.
func (b *Buffered) next(n int) []byte {
	p := b.buf[b.r : b.r+n]
	b.r += n
	return p
}

// ReadN implements ByteSource.
func (b *Buffered) ReadN(n int64) ([]byte, error) {
	if err := b.Require(n); err != nil {
		return nil, err
	}
	return bytes.Clone(b.next(int(n))), nil
}

// ReadAll implements ByteSource. On failure it returns the bytes consumed so
// far together with the error.
func (b *Buffered) ReadAll() ([]byte, error) {
	if b.closed {
		return nil, ErrClosed
	}
	var out []byte
	for {
		out = append(out, b.next(b.buffered())...)
		if err := b.fill(); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
	}
}

// ReadFull implements ByteSource.
func (b *Buffered) ReadFull(p []byte) error {
	if err := b.Require(int64(len(p))); err != nil {
		return err
	}
	copy(p, b.next(len(p)))
	return nil
}

// ReadInt16 implements ByteSource.
func (b *Buffered) ReadInt16() (int16, error) {
	if err := b.Require(2); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b.next(2))), nil //nolint:gosec // two's complement reinterpretation
}

// ReadInt16LE implements ByteSource.
func (b *Buffered) ReadInt16LE() (int16, error) {
	if err := b.Require(2); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b.next(2))), nil //nolint:gosec // two's complement reinterpretation
}

// ReadInt32 implements ByteSource.
func (b *Buffered) ReadInt32() (int32, error) {
	if err := b.Require(4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b.next(4))), nil //nolint:gosec // two's complement reinterpretation
}

// ReadInt32LE implements ByteSource.
func (b *Buffered) ReadInt32LE() (int32, error) {
	if err := b.Require(4); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b.next(4))), nil //nolint:gosec // two's complement reinterpretation
}

// ReadInt64 implements ByteSource.
func (b *Buffered) ReadInt64() (int64, error) {
	if err := b.Require(8); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b.next(8))), nil //nolint:gosec // two's complement reinterpretation
}

// ReadInt64LE implements ByteSource.
func (b *Buffered) ReadInt64LE() (int64, error) {
	if err := b.Require(8); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b.next(8))), nil //nolint:gosec // two's complement reinterpretation
}

// Skip implements ByteSource.
func (b *Buffered) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("skip %d: %w", n, ErrNegativeCount)
	}
	if b.closed {
		return ErrClosed
	}
	skipped := int64(0)
	for skipped < n {
		if b.buffered() == 0 {
			if err := b.fill(); err != nil {
				if err != io.EOF {
					return err
				}
				if skipped == 0 {
					return io.EOF
				}
				return ErrTruncated
			}
		}
		step := min(int64(b.buffered()), n-skipped)
		b.r += int(step)
		skipped += step
	}
	return nil
}

// search scans the stream from offset from for a match reported by find,
// which is handed the buffered window starting at from. width is the match
// length, so a partial match straddling the end of the buffer is rescanned.
func (b *Buffered) search(from int64, width int, find func([]byte) int) (int64, error) {
	if from < 0 {
		return -1, fmt.Errorf("search from %d: %w", from, ErrNegativeCount)
	}
	if b.closed {
		return -1, ErrClosed
	}
	for {
		avail := int64(b.buffered())
		if from+int64(width) <= avail {
			if i := find(b.buf[b.r+int(from):]); i >= 0 {
				return from + int64(i), nil
			}
			from = max(from, avail-int64(width)+1)
		}
		if err := b.fill(); err != nil {
			if err == io.EOF {
				return -1, nil
			}
			return -1, err
		}
	}
}

// IndexByte implements ByteSource.
func (b *Buffered) IndexByte(c byte, from int64) (int64, error) {
	return b.search(from, 1, func(p []byte) int {
		return bytes.IndexByte(p, c)
	})
}

// Index implements ByteSource.
func (b *Buffered) Index(seq []byte, from int64) (int64, error) {
	return b.search(from, len(seq), func(p []byte) int {
		return bytes.Index(p, seq)
	})
}

// IndexAny implements ByteSource.
func (b *Buffered) IndexAny(set []byte, from int64) (int64, error) {
	if len(set) == 0 {
		return -1, nil
	}
	return b.search(from, 1, func(p []byte) int {
		for i, c := range p {
			if bytes.IndexByte(set, c) >= 0 {
				return i
			}
		}
		return -1
	})
}

// Buffered implements ByteSource.
func (b *Buffered) Buffered() []byte {
	if b.closed {
		return nil
	}
	return b.buf[b.r:]
}

// ReadDelim implements ByteSource.
func (b *Buffered) ReadDelim(delim byte) ([]byte, error) {
	i, err := b.IndexByte(delim, 0)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		if b.buffered() == 0 {
			return nil, io.EOF
		}
		return bytes.Clone(b.next(b.buffered())), io.EOF
	}
	return bytes.Clone(b.next(int(i) + 1)), nil
}

// ReadLine implements ByteSource.
func (b *Buffered) ReadLine() (string, error) {
	i, err := b.IndexByte('\n', 0)
	if err != nil {
		return "", err
	}
	if i < 0 {
		if b.buffered() == 0 {
			return "", io.EOF
		}
		return string(b.next(b.buffered())), nil
	}
	return lineOf(b.next(int(i) + 1)), nil
}

// ReadLineStrict implements ByteSource.
func (b *Buffered) ReadLineStrict() (string, error) {
	i, err := b.IndexByte('\n', 0)
	if err != nil {
		return "", err
	}
	if i < 0 {
		if b.buffered() == 0 {
			return "", io.EOF
		}
		return "", fmt.Errorf("newline not found in %d bytes: %w", b.buffered(), ErrTruncated)
	}
	return lineOf(b.next(int(i) + 1)), nil
}

func lineOf(p []byte) string {
	p = p[:len(p)-1]
	if n := len(p); n > 0 && p[n-1] == '\r' {
		p = p[:n-1]
	}
	return string(p)
}

func (b *Buffered) readCount(n int64) ([]byte, error) {
	if n < 0 {
		return b.ReadAll()
	}
	if err := b.Require(n); err != nil {
		return nil, err
	}
	return b.next(int(n)), nil
}

// ReadUTF8 implements ByteSource. Invalid sequences are replaced with
// U+FFFD.
func (b *Buffered) ReadUTF8(n int64) (string, error) {
	p, err := b.readCount(n)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(p), "\uFFFD"), nil
}

// ReadString implements ByteSource. A nil enc reads UTF-8.
func (b *Buffered) ReadString(n int64, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return b.ReadUTF8(n)
	}
	p, err := b.readCount(n)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(p)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// WriteTo implements io.WriterTo.
func (b *Buffered) WriteTo(w io.Writer) (int64, error) {
	if b.closed {
		return 0, ErrClosed
	}
	var total int64
	for {
		if b.buffered() > 0 {
			n, err := w.Write(b.buf[b.r:])
			b.r += n
			total += int64(n)
			if err == nil && b.buffered() > 0 {
				err = io.ErrShortWrite
			}
			if err != nil {
				return total, err
			}
		}
		if err := b.fill(); err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) {
	return f(p)
}

// Reader implements ByteSource.
func (b *Buffered) Reader() io.Reader {
	return readerFunc(b.Read)
}

// Deadline implements ByteSource.
func (b *Buffered) Deadline() (time.Time, bool) {
	return b.deadline, b.hasDeadline
}

// Close releases the buffer and closes the underlying reader if it is an
// io.Closer. Only the first call reaches the underlying reader.
func (b *Buffered) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.buf = nil
	b.r = 0
	if c, ok := b.rd.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

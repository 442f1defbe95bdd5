// Package http adapts net/http messages to typed content: response bodies
// become content.Input and content.Output values become request bodies.
package http

import (
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/bodyio/content"
	"github.com/meigma/bodyio/source"
)

// Sentinel errors for HTTP content.
var (
	// ErrConsumed is returned when a response body is opened a second time.
	ErrConsumed = errors.New("bodyio: response body already consumed")

	// ErrUnsupportedEncoding is returned for a Content-Encoding that cannot
	// be decoded.
	ErrUnsupportedEncoding = errors.New("bodyio: unsupported content encoding")
)

// AcceptEncoding lists the content codings Input can decode.
const AcceptEncoding = "gzip, zstd"

// Input is a response body as typed content. It can be opened once.
type Input struct {
	mimeType string
	length   int64
	body     io.ReadCloser
	opened   bool

	deadline    time.Time
	hasDeadline bool
	bufferSize  int
}

// Interface compliance.
var _ content.Input = (*Input)(nil)

// Option configures an Input.
type Option func(*inputConfig)

type inputConfig struct {
	decode     bool
	bufferSize int
}

// WithoutDecoding leaves the body as received, ignoring Content-Encoding.
func WithoutDecoding() Option {
	return func(c *inputConfig) {
		c.decode = false
	}
}

// WithBufferSize sets the read size of the source returned by Open.
func WithBufferSize(n int) Option {
	return func(c *inputConfig) {
		c.bufferSize = n
	}
}

// NewInput wraps resp's body. The media type comes from Content-Type and the
// length from Content-Length; a decoded body has unknown length. The
// deadline of the request context, if any, is handed to the source.
//
// NewInput performs no I/O. It fails only for a nil body or an unsupported
// Content-Encoding, and then closes the response body.
func NewInput(resp *nethttp.Response, opts ...Option) (*Input, error) {
	if resp == nil || resp.Body == nil {
		return nil, fmt.Errorf("%w: nil response body", content.ErrInvalidArgument)
	}
	cfg := inputConfig{decode: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	in := &Input{
		mimeType:   resp.Header.Get("Content-Type"),
		length:     resp.ContentLength,
		body:       resp.Body,
		bufferSize: cfg.bufferSize,
	}
	if in.mimeType == "" {
		in.mimeType = content.DefaultMimeType
	}
	if in.length < 0 {
		in.length = -1
	}
	if resp.Request != nil {
		in.deadline, in.hasDeadline = resp.Request.Context().Deadline()
	}

	// Only the coding name is checked here; nothing is read from the body
	// until the source returned by Open is read.
	if cfg.decode {
		body, decoded, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
		if err != nil {
			_ = resp.Body.Close()
			return nil, err
		}
		if decoded {
			in.body = body
			in.length = -1
		}
	}
	return in, nil
}

// MimeType returns the Content-Type of the response.
func (in *Input) MimeType() string {
	return in.mimeType
}

// Length returns the body length, or -1 for chunked or decoded bodies.
func (in *Input) Length() int64 {
	return in.length
}

// Open returns a source over the body. Closing the source closes the body.
func (in *Input) Open() (source.ByteSource, error) {
	if in.opened {
		return nil, ErrConsumed
	}
	in.opened = true

	opts := []source.Option{source.WithBufferSize(in.bufferSize)}
	if in.hasDeadline {
		opts = append(opts, source.WithDeadline(in.deadline))
	}
	return source.New(in.body, opts...), nil
}

// decodeBody wraps body with a decoder for coding. It reports false when the
// body is returned unchanged. The decoder is created on the first Read, so
// its header is read from the body like any other bytes.
func decodeBody(body io.ReadCloser, coding string) (io.ReadCloser, bool, error) {
	switch strings.ToLower(strings.TrimSpace(coding)) {
	case "", "identity":
		return body, false, nil
	case "gzip", "x-gzip":
		return &decodedBody{body: body, coding: "gzip", newDecoder: newGzipDecoder}, true, nil
	case "zstd":
		return &decodedBody{body: body, coding: "zstd", newDecoder: newZstdDecoder}, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, coding)
	}
}

func newGzipDecoder(r io.Reader) (io.Reader, func() error, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return zr, zr.Close, nil
}

func newZstdDecoder(r io.Reader) (io.Reader, func() error, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	release := func() error {
		zr.Close()
		return nil
	}
	return zr, release, nil
}

// decodedBody reads through a decoder and closes both the decoder and the
// raw body.
type decodedBody struct {
	body       io.ReadCloser
	coding     string
	newDecoder func(io.Reader) (io.Reader, func() error, error)

	dec     io.Reader
	release func() error
	err     error
}

func (d *decodedBody) Read(p []byte) (int, error) {
	if d.dec == nil {
		if d.err != nil {
			return 0, d.err
		}
		dec, release, err := d.newDecoder(d.body)
		if err != nil {
			// An empty body has no header and decodes to nothing.
			if err != io.EOF {
				err = fmt.Errorf("%s body: %w", d.coding, err)
			}
			d.err = err
			return 0, err
		}
		d.dec, d.release = dec, release
	}
	return d.dec.Read(p)
}

func (d *decodedBody) Close() error {
	var errs []error
	if d.release != nil {
		if err := d.release(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.body.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

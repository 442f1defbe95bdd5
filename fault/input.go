package fault

import (
	"github.com/meigma/bodyio/content"
	"github.com/meigma/bodyio/source"
)

// Input wraps a content.Input so that every read of its body is tracked.
// The delegate is opened once, when the Input is created, and Open returns
// that same tracked Source each time.
type Input struct {
	delegate content.Input
	src      *Source
}

// Interface compliance.
var _ content.Input = (*Input)(nil)

// NewInput opens in and wraps the resulting stream.
func NewInput(in content.Input, opts ...Option) (*Input, error) {
	src, err := in.Open()
	if err != nil {
		return nil, err
	}
	return &Input{
		delegate: in,
		src:      NewSource(src, opts...),
	}, nil
}

// MimeType returns the delegate's media type.
func (in *Input) MimeType() string {
	return in.delegate.MimeType()
}

// Length returns the delegate's length.
func (in *Input) Length() int64 {
	return in.delegate.Length()
}

// Open returns the tracked source.
func (in *Input) Open() (source.ByteSource, error) {
	return in.src, nil
}

// Source returns the tracked source.
func (in *Input) Source() *Source {
	return in.src
}

// Fault returns the first fault recorded while reading the body.
func (in *Input) Fault() error {
	return in.src.Fault()
}

// Faulted reports whether reading the body faulted.
func (in *Input) Faulted() bool {
	return in.src.Faulted()
}

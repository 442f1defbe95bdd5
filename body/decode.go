// Package body consumes typed content with a converter and attributes any
// failure to either the transport or the converter.
package body

import (
	"log/slog"

	"github.com/meigma/bodyio/content"
	"github.com/meigma/bodyio/fault"
	"github.com/meigma/bodyio/source"
)

// Converter interprets a body.
type Converter interface {
	Convert(src source.ByteSource) error
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(src source.ByteSource) error

// Convert calls f(src).
func (f ConverterFunc) Convert(src source.ByteSource) error {
	return f(src)
}

// Option configures Decode.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	faultOpts []fault.Option
}

// WithLogger sets the logger used to report failure attribution.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithFaultFilter sets which read errors count as transport faults.
// See fault.WithFaultFilter.
func WithFaultFilter(isFault func(error) bool) Option {
	return func(c *config) {
		c.faultOpts = append(c.faultOpts, fault.WithFaultFilter(isFault))
	}
}

func (c *config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Decode opens in, hands the body to conv and closes it.
//
// A failure to open the body, a converter failure after the body faulted, or
// a failing close is returned as a *TransportError. A converter failure on a
// body read without faults is returned as a *ConversionError.
func Decode(in content.Input, conv Converter, opts ...Option) error {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log().With("mime_type", in.MimeType())

	tracked, err := fault.NewInput(in, cfg.faultOpts...)
	if err != nil {
		log.Debug("opening body failed", "error", err)
		return &TransportError{MimeType: in.MimeType(), Err: err}
	}
	src := tracked.Source()

	convErr := conv.Convert(src)
	if convErr != nil && tracked.Faulted() {
		_ = src.Close()
		log.Debug("converter failed after transport fault",
			"fault", tracked.Fault(), "converter_error", convErr)
		return &TransportError{MimeType: in.MimeType(), Err: tracked.Fault()}
	}
	closeErr := src.Close()
	if convErr != nil {
		log.Debug("converter rejected body", "error", convErr)
		return &ConversionError{MimeType: in.MimeType(), Err: convErr}
	}
	if closeErr != nil {
		log.Debug("closing body failed", "error", closeErr)
		return &TransportError{MimeType: in.MimeType(), Err: closeErr}
	}
	return nil
}

// DecodeValue is Decode for converters that produce a value.
func DecodeValue[T any](in content.Input, conv func(src source.ByteSource) (T, error), opts ...Option) (T, error) {
	var v T
	err := Decode(in, ConverterFunc(func(src source.ByteSource) error {
		var err error
		v, err = conv(src)
		return err
	}), opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

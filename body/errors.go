package body

import (
	"errors"
	"fmt"
)

// Sentinel errors for body decoding.
var (
	// ErrTransport is matched by errors caused by the transport failing
	// while the body was read.
	ErrTransport = errors.New("bodyio: transport failure")

	// ErrConversion is matched by errors caused by the converter rejecting
	// bytes that were received intact.
	ErrConversion = errors.New("bodyio: conversion failure")
)

// TransportError reports that reading the body failed underneath the
// converter. Err is the first fault the body produced.
type TransportError struct {
	MimeType string
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("reading %s body: %v", e.MimeType, e.Err)
}

// Unwrap returns the sentinel and the cause, for errors.Is and errors.As.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// ConversionError reports that the converter failed on a body that was read
// without any transport fault.
type ConversionError struct {
	MimeType string
	Err      error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s body: %v", e.MimeType, e.Err)
}

// Unwrap returns the sentinel and the cause, for errors.Is and errors.As.
func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversion, e.Err}
}

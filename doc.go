// Package bodyio is the typed content layer beneath an HTTP client: byte
// streams paired with a media type label, read by converters, with enough
// bookkeeping to tell afterwards whether a failed read was the transport's
// fault or the converter's.
//
// The module is organised by role:
//   - [source]: ByteSource, a buffered forward-only stream with structured
//     reads and search, and its Buffered implementation.
//   - [content]: the Input and Output contracts plus File, Bytes and
//     FormURLEncoded implementations.
//   - [fault]: a ByteSource decorator recording the first I/O fault.
//   - [http]: response bodies as Input and Output values as request bodies.
//   - [body]: Decode, which runs a converter and classifies its failure.
//
// # Attributing failures
//
// Wrap a response body and hand it to a converter:
//
//	in, err := http.NewInput(resp)
//	if err != nil {
//	    return err
//	}
//	v, err := body.DecodeValue(in, decodeJSON)
//	switch {
//	case errors.Is(err, bodyio.ErrTransport):
//	    // the connection failed mid-body; the request may be retried
//	case errors.Is(err, bodyio.ErrConversion):
//	    // the server sent something decodeJSON could not parse
//	}
//
// # Files
//
// File content can be staged and moved into place atomically:
//
//	staged, _ := content.NewFile("application/json", tmpPath)
//	final, _ := content.NewFile("application/json", "data.json")
//	if err := staged.MoveTo(final); err != nil {
//	    // ErrTypeMismatch or a *content.RenameError
//	}
package bodyio

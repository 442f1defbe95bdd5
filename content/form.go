package content

import (
	"bytes"
	"io"
	"net/url"
)

// FormMimeType is the media type of FormURLEncoded content.
const FormMimeType = "application/x-www-form-urlencoded; charset=UTF-8"

// FormURLEncoded is an Output of name=value pairs joined with '&'.
// Fields keep the order in which they were added.
type FormURLEncoded struct {
	buf bytes.Buffer
}

// Interface compliance.
var _ Output = (*FormURLEncoded)(nil)

// Add appends a field, escaping name and value.
func (f *FormURLEncoded) Add(name, value string) {
	f.AddEncoded(url.QueryEscape(name), url.QueryEscape(value))
}

// AddEncoded appends a field whose name and value are already escaped.
func (f *FormURLEncoded) AddEncoded(name, value string) {
	if f.buf.Len() > 0 {
		f.buf.WriteByte('&')
	}
	f.buf.WriteString(name)
	f.buf.WriteByte('=')
	f.buf.WriteString(value)
}

// MimeType returns FormMimeType.
func (f *FormURLEncoded) MimeType() string { return FormMimeType }

// Length returns the size of the encoded form so far.
func (f *FormURLEncoded) Length() int64 { return int64(f.buf.Len()) }

// FileName returns "".
func (f *FormURLEncoded) FileName() string { return "" }

// WriteTo writes the encoded form. The form is not consumed and may be
// written again.
func (f *FormURLEncoded) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.buf.Bytes())
	return int64(n), err
}

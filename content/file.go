package content

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"

	"github.com/meigma/bodyio/source"
)

// File is typed content backed by a filesystem path.
//
// Two Files are equal when their paths are equal; the media type takes no
// part in identity. The backing file is read at call time and never locked,
// so concurrent modification is visible to Length and Open.
type File struct {
	mimeType string
	path     string
	opts     []source.Option
}

// Interface compliance.
var (
	_ Input  = (*File)(nil)
	_ Output = (*File)(nil)
)

// NewFile creates a File labelled mimeType at path. The path is cleaned but
// not resolved, and need not exist yet.
func NewFile(mimeType, path string, opts ...source.Option) (*File, error) {
	if mimeType == "" {
		return nil, fmt.Errorf("%w: empty mime type", ErrInvalidArgument)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}
	return &File{
		mimeType: mimeType,
		path:     filepath.Clean(path),
		opts:     opts,
	}, nil
}

// Path returns the backing path.
func (f *File) Path() string {
	return f.path
}

// MimeType implements Input and Output.
func (f *File) MimeType() string {
	return f.mimeType
}

// Length returns the current size of the backing file, or -1 if it cannot be
// determined.
func (f *File) Length() int64 {
	info, err := os.Stat(f.path)
	if err != nil || !info.Mode().IsRegular() {
		return -1
	}
	return info.Size()
}

// FileName returns the base name of the path.
func (f *File) FileName() string {
	return filepath.Base(f.path)
}

// Open returns a buffered source over the file.
func (f *File) Open() (source.ByteSource, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	return source.New(fh, f.opts...), nil
}

// WriteTo streams the file to w. The file handle is released before WriteTo
// returns, whether or not the copy succeeded.
func (f *File) WriteTo(w io.Writer) (n int64, err error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	n, err = io.Copy(w, fh)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", f.path, err)
	}
	return n, nil
}

// MoveTo atomically renames the backing file to dst's path.
//
// The media types must match or ErrTypeMismatch is returned and nothing on
// disk changes. A rename the filesystem rejects, such as one across devices,
// returns a *RenameError and leaves both paths as they were. After a
// successful move f no longer has a backing file.
func (f *File) MoveTo(dst *File) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrInvalidArgument)
	}
	if f.mimeType != dst.mimeType {
		return fmt.Errorf("%w: %s to %s", ErrTypeMismatch, f.mimeType, dst.mimeType)
	}
	if err := os.Rename(f.path, dst.path); err != nil {
		return &RenameError{Src: f.path, Dst: dst.path, Err: err}
	}
	return nil
}

// Equal reports whether other refers to the same path.
func (f *File) Equal(other *File) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	return f.path == other.path
}

// Hash returns a hash of the path, consistent with Equal.
func (f *File) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(f.path)) //nolint:errcheck // hash writes never fail
	return h.Sum64()
}

// String returns the absolute path followed by the media type.
func (f *File) String() string {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		abs = f.path
	}
	return abs + " (" + f.mimeType + ")"
}

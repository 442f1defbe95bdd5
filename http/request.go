package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	nethttp "net/http"
	"sync"

	"github.com/meigma/bodyio/content"
)

// NewRequest creates a request whose body streams out. out may be nil for a
// request without a body. The request advertises the content codings that
// NewInput decodes.
//
// The body is produced lazily by out.WriteTo on first read, and GetBody is
// set so the transport can replay it on redirects.
func NewRequest(ctx context.Context, method, url string, out content.Output) (*nethttp.Request, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept-Encoding", AcceptEncoding)
	if out == nil {
		return req, nil
	}

	req.Header.Set("Content-Type", out.MimeType())
	if name := out.FileName(); name != "" {
		req.Header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	}
	req.ContentLength = max(out.Length(), -1)
	req.Body = newOutputBody(out)
	req.GetBody = func() (io.ReadCloser, error) {
		return newOutputBody(out), nil
	}
	if req.ContentLength == 0 {
		req.Body = nethttp.NoBody
		req.GetBody = func() (io.ReadCloser, error) { return nethttp.NoBody, nil }
	}
	return req, nil
}

// outputBody adapts a content.Output to io.ReadCloser through a pipe. The
// writing goroutine starts on the first Read, so an unsent request leaks
// nothing.
type outputBody struct {
	out   content.Output
	pr    *io.PipeReader
	pw    *io.PipeWriter
	start sync.Once
}

func newOutputBody(out content.Output) *outputBody {
	pr, pw := io.Pipe()
	return &outputBody{out: out, pr: pr, pw: pw}
}

func (b *outputBody) Read(p []byte) (int, error) {
	b.start.Do(func() {
		go func() {
			_, err := b.out.WriteTo(b.pw)
			b.pw.CloseWithError(err)
		}()
	})
	return b.pr.Read(p)
}

// Close stops the writer, if one was started, with io.ErrClosedPipe.
func (b *outputBody) Close() error {
	return b.pr.Close()
}

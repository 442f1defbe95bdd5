package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	stdmime "mime"
	nethttp "net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/meigma/bodyio/body"
	"github.com/meigma/bodyio/content"
	bodyhttp "github.com/meigma/bodyio/http"
	"github.com/meigma/bodyio/source"
)

const (
	defaultFileName = "index"

	filePerm        = 0o644
	maxNameAttempts = 100
)

var (
	errMimeMismatch = errors.New("unexpected media type")
	errNameTaken    = errors.New("no free file name")
)

type fetcher struct {
	client   *nethttp.Client
	dir      string
	timeout  time.Duration
	mimeType string
	logger   *slog.Logger
}

// fetch downloads rawURL into f.dir and returns the final file.
func (f *fetcher) fetch(ctx context.Context, rawURL string) (*content.File, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	log := f.logger.With("url", rawURL)

	req, err := bodyhttp.NewRequest(ctx, nethttp.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != nethttp.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}

	in, err := bodyhttp.NewInput(resp)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if f.mimeType != "" && !sameMediaType(f.mimeType, in.MimeType()) {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %w: got %s, want %s", rawURL, errMimeMismatch, in.MimeType(), f.mimeType)
	}

	tmp, err := os.CreateTemp(f.dir, ".fetch-*")
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	staged, err := content.NewFile(in.MimeType(), tmp.Name())
	if err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		resp.Body.Close()
		return nil, err
	}
	discard := func() {
		_ = os.Remove(staged.Path())
	}

	err = body.Decode(in, body.ConverterFunc(func(src source.ByteSource) error {
		_, err := src.WriteTo(tmp)
		return err
	}), body.WithLogger(log))
	if err == nil {
		err = tmp.Chmod(filePerm)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		discard()
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}

	dstPath, err := reserve(f.dir, fileNameFor(rawURL))
	if err != nil {
		discard()
		return nil, err
	}
	dst, err := content.NewFile(in.MimeType(), dstPath)
	if err != nil {
		discard()
		_ = os.Remove(dstPath)
		return nil, err
	}
	if err := staged.MoveTo(dst); err != nil {
		discard()
		_ = os.Remove(dstPath)
		return nil, err
	}

	dgst, err := content.Digest(dst)
	if err != nil {
		return nil, err
	}
	log.Info("fetched", "path", dst.Path(), "mime_type", dst.MimeType(), "size", dst.Length(), "digest", dgst)
	return dst, nil
}

// fileNameFor derives a local file name from the last URL path segment.
func fileNameFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultFileName
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return defaultFileName
	}
	return name
}

// reserve claims a free name in dir by creating an empty placeholder, which
// the staged file then replaces. A taken name gets a numeric suffix before
// its extension: data.csv, data-1.csv, data-2.csv.
func reserve(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := range maxNameAttempts {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		p := filepath.Join(dir, candidate)
		ph, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := ph.Close(); err != nil {
			_ = os.Remove(p)
			return "", err
		}
		return p, nil
	}
	return "", fmt.Errorf("%w for %s in %s", errNameTaken, name, dir)
}

// sameMediaType compares media types ignoring parameters.
func sameMediaType(a, b string) bool {
	ma, _, errA := stdmime.ParseMediaType(a)
	mb, _, errB := stdmime.ParseMediaType(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ma == mb
}

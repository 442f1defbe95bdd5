package content

import (
	_ "crypto/sha256" // registers digest.Canonical
	"fmt"

	"github.com/opencontainers/go-digest"
)

// Digest streams out and returns its canonical (sha256) digest.
func Digest(out Output) (digest.Digest, error) {
	d := digest.Canonical.Digester()
	if _, err := out.WriteTo(d.Hash()); err != nil {
		return "", fmt.Errorf("digest %s content: %w", out.MimeType(), err)
	}
	return d.Digest(), nil
}

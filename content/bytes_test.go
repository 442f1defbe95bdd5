package content

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	t.Parallel()

	_, err := NewBytes("", []byte("x"))
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewBytes("text/plain", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	b, err := NewBytes("application/cbor", []byte{0xa1, 0x61, 0x61, 0x01})
	require.NoError(t, err)
	assert.Equal(t, "application/cbor", b.MimeType())
	assert.Equal(t, int64(4), b.Length())
	assert.Empty(t, b.FileName())

	var sink bytes.Buffer
	n, err := b.WriteTo(&sink)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, b.Bytes(), sink.Bytes())

	// Every Open starts from the beginning.
	for range 2 {
		src, err := b.Open()
		require.NoError(t, err)
		v, err := src.ReadInt16()
		require.NoError(t, err)
		assert.Equal(t, int16(-24223), v)
		require.NoError(t, src.Close())
	}
}

func TestNewString(t *testing.T) {
	t.Parallel()

	s := NewString("héllo")
	assert.Equal(t, "text/plain; charset=UTF-8", s.MimeType())
	assert.Equal(t, int64(6), s.Length())
}

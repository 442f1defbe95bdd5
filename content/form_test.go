package content

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeForm(t *testing.T, f *FormURLEncoded) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestFormURLEncoded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields [][2]string
		want   string
	}{
		{
			name:   "reserved characters",
			fields: [][2]string{{"a&b", "c=d"}, {"space, the", "final frontier"}},
			want:   "a%26b=c%3Dd&space%2C+the=final+frontier",
		},
		{
			name:   "utf-8",
			fields: [][2]string{{"ooɟ", "ɹɐq"}},
			want:   "oo%C9%9F=%C9%B9%C9%90q",
		},
		{
			name:   "simple pairs",
			fields: [][2]string{{"sim", "ple"}, {"hey", "there"}, {"help", "me"}},
			want:   "sim=ple&hey=there&help=me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var f FormURLEncoded
			for _, field := range tt.fields {
				f.Add(field[0], field[1])
			}
			assert.Equal(t, tt.want, encodeForm(t, &f))
			assert.Equal(t, int64(len(tt.want)), f.Length())
			assert.Equal(t, FormMimeType, f.MimeType())
		})
	}
}

func TestFormURLEncoded_IncrementalWrites(t *testing.T) {
	t.Parallel()

	var f FormURLEncoded
	f.Add("sim", "ple")
	assert.Equal(t, "sim=ple", encodeForm(t, &f))

	f.AddEncoded("pre%20encoded", "a+b")
	assert.Equal(t, "sim=ple&pre%20encoded=a+b", encodeForm(t, &f))
}

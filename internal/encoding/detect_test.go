package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/ledgermatch/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Your Ref,Document Type,Member Code\n59088,Crédit Note,1001\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "façade café\n": ç = 0xE7, é = 0xE9.
	input := []byte{
		'f', 'a', 0xE7, 'a', 'd', 'e', ' ',
		'c', 'a', 'f', 0xE9, '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "façade café\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// The 3-byte UTF-8 BOM must be stripped, not surfaced to the parser.
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Your Ref,Member Code\n")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Your Ref,Member Code\n", string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})

	for _, r := range "Your Ref\n" {
		buf.WriteByte(byte(r))
		buf.WriteByte(0)
	}

	r, err := encoding.NewUTF8Reader(&buf)
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Your Ref\n", string(got))
}

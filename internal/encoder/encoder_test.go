package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcarreno/bminor/internal/encoder"
)

func TestDecodeSimpleString(t *testing.T) {
	got, err := encoder.Decode(`"hello"`, '"')
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestDecodeEscapes(t *testing.T) {
	got, err := encoder.Decode(`"a\tb\nc\\\""`, '"')
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc\\\"", got)
}

func TestDecodeHexEscape(t *testing.T) {
	got, err := encoder.Decode(`"\0x41"`, '"')
	require.NoError(t, err)
	assert.Equal(t, "A", got)
}

func TestDecodeMissingClosingQuoteErrors(t *testing.T) {
	_, err := encoder.Decode(`"hello`, '"')
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, s := range []string{"hello", "a\tb\nc", "quote\"inside", `back\slash`} {
		encoded := encoder.Encode(s, '"')
		decoded, err := encoder.Decode(encoded, '"')
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestDecodeCharLiteral(t *testing.T) {
	got, err := encoder.Decode(`'x'`, '\'')
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	got, err = encoder.Decode(`'\n'`, '\'')
	require.NoError(t, err)
	assert.Equal(t, "\n", got)
}

package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionString(t *testing.T) {
	require.Equal(t, "test.bminor:42:15", Position{Filename: "test.bminor", Line: 42, Column: 15}.String())
	require.Equal(t, ":0:0", Position{}.String())
}

func TestPositionIsValid(t *testing.T) {
	require.True(t, Position{Line: 1, Column: 1}.IsValid())
	require.False(t, Position{}.IsValid())
	require.False(t, Position{Line: -1}.IsValid())
}

func TestLexerTracksPositions(t *testing.T) {
	lx := New("x: integer;\ny: boolean;", "pos.bminor")

	tok, err := lx.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokenIdentifier, tok.Type)
	require.Equal(t, Position{Filename: "pos.bminor", Line: 1, Column: 1, Offset: 0}, tok.Position)

	for tok.Type != TokenSemicolon {
		tok, err = lx.NextToken()
		require.NoError(t, err)
	}
	tok, err = lx.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokenIdentifier, tok.Type)
	require.Equal(t, 2, tok.Position.Line)
	require.Equal(t, 1, tok.Position.Column)
}

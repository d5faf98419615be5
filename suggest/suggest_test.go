package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opalscript/ecmalex/suggest"
	"github.com/opalscript/ecmalex/token"
)

func symbol(text string) token.Token {
	return token.Token{Kind: token.SYMBOL, Bytes: []byte(text)}
}

func TestNearestKeywordCatchesTypo(t *testing.T) {
	word, ok := suggest.NearestKeyword(symbol("retrun"))
	require.True(t, ok)
	require.Equal(t, "return", word)
}

func TestNearestKeywordIgnoresUnrelatedIdentifier(t *testing.T) {
	_, ok := suggest.NearestKeyword(symbol("totallyUnrelatedName"))
	require.False(t, ok)
}

func TestNearestKeywordIgnoresNonSymbol(t *testing.T) {
	tok := symbol("retrun")
	tok.Kind = token.KEYWORD
	_, ok := suggest.NearestKeyword(tok)
	require.False(t, ok)
}

func TestNearestKeywordExactMatchNotSuggested(t *testing.T) {
	// an exact match means the classifier already would have caught this
	// as a real keyword; NearestKeyword only fires on near-misses.
	_, ok := suggest.NearestKeyword(symbol("return"))
	require.False(t, ok)
}

// Package suggest offers an opt-in "did you mean" helper over an already
// classified token stream. The core classifier is permissive by design: a
// misspelled reserved word used as an identifier lexes as an ordinary
// SYMBOL, the same as any other identifier (the classifier is not a
// validator and never produces standards-exact diagnostics). This package
// never changes that classification; it only offers a downstream linter a
// likely-intended keyword for a SYMBOL that is suspiciously close to one.
package suggest

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opalscript/ecmalex/token"
)

// reservedWords is every unconditional or context-sensitive keyword the
// base lexicon recognizes, used as the candidate set for fuzzy matching.
var reservedWords = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "enum", "export", "extends",
	"false", "finally", "for", "function", "if", "import", "in",
	"instanceof", "new", "null", "return", "super", "switch", "this",
	"throw", "true", "try", "typeof", "var", "void", "while", "with",
	"implements", "interface", "package", "private", "protected",
	"public", "await", "yield", "let",
}

// maxSuggestDistance bounds how different a SYMBOL's text may be from a
// keyword before NearestKeyword gives up rather than offer a wild guess.
const maxSuggestDistance = 2

// NearestKeyword returns the reserved word most likely intended by a
// SYMBOL token whose text is a short edit distance away from one, and
// whether a close-enough candidate was found at all. It is never called
// by the parser itself; a caller runs it over the classified stream
// afterward, typically only for SYMBOLs in a position a real keyword
// would also be grammatically valid in.
func NearestKeyword(tok token.Token) (word string, ok bool) {
	if tok.Kind != token.SYMBOL {
		return "", false
	}
	text := tok.Text()
	if text == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	best, bestDist := "", maxSuggestDistance+1
	for _, w := range reservedWords {
		if d := fuzzy.LevenshteinDistance(lower, w); d < bestDist {
			best, bestDist = w, d
		}
	}
	if bestDist > maxSuggestDistance || bestDist == 0 {
		return "", false
	}
	return best, true
}

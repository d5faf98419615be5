// Package cache provides an incremental re-lex session for editors and
// highlighters, which re-tokenize on every keystroke. It keeps the last
// full token stream plus a per-line BLAKE2b-256 digest, so a caller can
// cheaply tell how much of a buffer actually changed before deciding
// whether a re-lex is even necessary.
//
// The underlying parser.Run call is unchanged and still single-pass over
// whatever span it is given; Run exposes no way to checkpoint and resume
// the lexer/parser's bracket and frame stacks mid-buffer, so Update always
// re-runs the full pipeline when the digests disagree. What it buys over
// calling parser.Run directly is the unchanged-buffer fast path (no work
// at all) and ChangedLines, the index of the first changed line, useful
// for an editor deciding whether to debounce.
package cache

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/opalscript/ecmalex/lexer"
	"github.com/opalscript/ecmalex/parser"
	"github.com/opalscript/ecmalex/token"
)

// Session holds the last full token stream for a source buffer plus a
// per-line fingerprint.
type Session struct {
	opts []parser.Opt

	digest [][32]byte
	tokens []token.Token
}

// New creates a Session and performs its first full parse of src.
func New(src []byte, opts ...parser.Opt) (*Session, error) {
	s := &Session{opts: opts}
	if err := s.full(src); err != nil {
		return nil, err
	}
	return s, nil
}

// Tokens returns the token stream as of the most recent Update.
func (s *Session) Tokens() []token.Token { return s.tokens }

// ChangedLines reports the index of the first line of newSource whose
// digest differs from the session's current source, without re-lexing,
// or -1 when every line and the line count match. A result equal to the
// shorter of the two line counts means the shared lines all match and
// only the line counts differ.
func (s *Session) ChangedLines(newSource []byte) int {
	newDigest := digestLines(splitLines(newSource))
	return firstDivergence(s.digest, newDigest)
}

// Update re-tokenizes newSource. If newSource digests identically to the
// session's current source, the previous token stream is reused and the
// lexer/parser pipeline is not invoked at all; otherwise it runs a full
// session over newSource.
func (s *Session) Update(newSource []byte) error {
	if s.ChangedLines(newSource) < 0 {
		return nil // byte-identical source; tokens already current.
	}
	return s.full(newSource)
}

func (s *Session) full(src []byte) error {
	lx := lexer.New(src)
	p := parser.New(s.opts...)

	var toks []token.Token
	status := p.Run(lx, func(tok token.Token) { toks = append(toks, tok) })
	if status != parser.StatusOK {
		return fmt.Errorf("cache: re-lex failed: %s", status)
	}

	s.digest = digestLines(splitLines(src))
	s.tokens = toks
	return nil
}

// fingerprint returns the BLAKE2b-256 digest of line, unkeyed: unlike the
// scrubber's per-run keyed fingerprints (which must resist cross-run
// correlation of secret values), a line's content here is not sensitive,
// so a plain digest is enough to detect equality cheaply.
func fingerprint(line []byte) [32]byte {
	return blake2b.Sum256(line)
}

func digestLines(lines [][]byte) [][32]byte {
	d := make([][32]byte, len(lines))
	for i, line := range lines {
		d[i] = fingerprint(line)
	}
	return d
}

// firstDivergence returns the index of the first line at which a and b
// differ, or -1 if every line they share in common (and their lengths)
// matches.
func firstDivergence(a, b [][32]byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !bytes.Equal(a[i][:], b[i][:]) {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

func splitLines(src []byte) [][]byte {
	if len(src) == 0 {
		return nil
	}
	return bytes.Split(src, []byte("\n"))
}

// Package wire canonicalizes a classified token stream for out-of-process
// consumers: a separate source-map builder or import-rewriter that cannot
// share the in-process parser.Sink callback. It trades the raw []byte
// slices a Token carries (which alias the caller's source buffer and
// cannot outlive it) for a self-contained, version-tagged encoding.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/opalscript/ecmalex/token"
)

// formatVersion is bumped whenever WireToken's shape changes in a way that
// breaks an existing consumer.
const formatVersion = 1

// WireStream is the canonical, version-tagged form of a parser session's
// token output. Offsets replace the byte-slice aliasing a Token normally
// carries, so a WireStream is safe to serialize, store, or ship across a
// process boundary.
type WireStream struct {
	Version uint8
	Tokens  []WireToken
}

// WireToken mirrors token.Token but with an explicit Start/End byte range
// instead of a slice into the source buffer, and drops Hash (an internal
// lexer/parser classification detail with no meaning outside this
// session).
type WireToken struct {
	Kind  uint8
	Mark  uint8
	Line  int
	Start int
	End   int
}

// Encoder is a parser.Sink that accumulates tokens into a WireStream,
// tracking each token's byte offset into the source it was handed
// alongside. Virtual tokens (START, ATTACH, ASI SEMICOLON/CLOSE) carry no
// source bytes and get a zero-length Start/End at the current cursor: the
// end offset of the last token that carried bytes (0 before any).
type Encoder struct {
	src    []byte
	cursor int
	tokens []WireToken
}

// NewEncoder returns an Encoder over src. src must be the same buffer
// passed to lexer.New for the session whose tokens will be fed to Sink.
func NewEncoder(src []byte) *Encoder {
	return &Encoder{src: src}
}

// Sink implements parser.Sink. Pass e.Sink to parser.Run.
func (e *Encoder) Sink(tok token.Token) {
	wt := WireToken{
		Kind: uint8(tok.Kind),
		Mark: uint8(tok.Mark),
		Line: tok.Line,
	}
	if len(tok.Bytes) > 0 {
		start := e.indexOf(tok.Bytes)
		wt.Start = start
		wt.End = start + len(tok.Bytes)
		e.cursor = wt.End
	} else {
		wt.Start = e.cursor
		wt.End = e.cursor
	}
	e.tokens = append(e.tokens, wt)
}

// indexOf locates b within e.src starting at the current cursor. Tokens
// are delivered in strict source order, so a forward-only scan from the
// last match never needs to backtrack.
func (e *Encoder) indexOf(b []byte) int {
	if len(b) == 0 {
		return e.cursor
	}
	for i := e.cursor; i+len(b) <= len(e.src); i++ {
		if string(e.src[i:i+len(b)]) == string(b) {
			return i
		}
	}
	return e.cursor
}

// Stream returns the accumulated WireStream. Safe to call after Run
// returns, regardless of its Status: a partial stream from an early exit
// is still a valid, well-formed WireStream of whatever was sunk.
func (e *Encoder) Stream() WireStream {
	return WireStream{Version: formatVersion, Tokens: e.tokens}
}

// Marshal CBOR-encodes s with canonical (deterministic) encoding options,
// so the same token sequence always produces byte-identical output.
func Marshal(s WireStream) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("wire: cbor encoder: %w", err)
	}
	data, err := encMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("wire: cbor encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a WireStream previously produced by Marshal.
func Unmarshal(data []byte) (WireStream, error) {
	var s WireStream
	if err := cbor.Unmarshal(data, &s); err != nil {
		return WireStream{}, fmt.Errorf("wire: cbor decode: %w", err)
	}
	return s, nil
}

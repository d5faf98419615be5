// Package lexer implements the byte-level scanning layer: whitespace and
// comment skipping, literal recognition, keyword hashing, and tracking of
// the bracket stack that the parser layer needs to resolve the ternary
// colon and template-literal resumption.
//
// The lexer never backtracks and never allocates beyond its small internal
// bracket stack: every call to Next consumes exactly one token's worth
// of input (or none, for the terminal EOF).
package lexer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/opalscript/ecmalex/config"
	"github.com/opalscript/ecmalex/token"
)

// HasValue is the three-valued hint the parser passes to Next to resolve
// whether a leading '/' begins a division operator or a regexp literal.
type HasValue int

const (
	// Yes means the preceding token carries a value, so '/' divides it.
	Yes HasValue = iota
	// No means there is no preceding value, so '/' begins a regexp.
	No
	// Ignore means a '/' cannot legally appear here; encountering one is
	// an internal error, not a value to classify.
	Ignore
)

// bracketStackSize bounds the lexer's open-bracket tracking stack.
const bracketStackSize = 256

// ErrBracketOverflow is returned when more than bracketStackSize brackets
// are open simultaneously.
var ErrBracketOverflow = errors.New("lexer: bracket stack overflow")

// ErrSlashWithoutValue is returned when Next is called with hv == Ignore
// but the next byte to scan is '/'. This indicates a parser bug: the slash
// disambiguation hint is mandatory whenever a slash can appear.
var ErrSlashWithoutValue = errors.New("lexer: slash encountered with has_value=ignore")

// TelemetryMode controls production-safe token-count telemetry.
type TelemetryMode int

const (
	TelemetryOff TelemetryMode = iota
	TelemetryBasic
	TelemetryTiming
)

// DebugLevel controls development-only trace logging, emitted via log/slog.
type DebugLevel int

const (
	DebugOff DebugLevel = iota
	DebugPaths
	DebugDetailed
)

// Opt configures a Lexer at construction time.
type Opt func(*lexConfig)

type lexConfig struct {
	telemetry TelemetryMode
	debug     DebugLevel
	edition   config.Options
}

// WithTelemetry enables per-kind token-count collection, read back via
// Counts. TelemetryTiming collects the same counts as TelemetryBasic; no
// timing is recorded. Zero overhead when left at the default, TelemetryOff.
func WithTelemetry(mode TelemetryMode) Opt {
	return func(c *lexConfig) { c.telemetry = mode }
}

// WithDebug enables log/slog trace output at the requested level.
// Development only; never enable in a production pipeline.
func WithDebug(level DebugLevel) Opt {
	return func(c *lexConfig) { c.debug = level }
}

// WithConfig gates the lexer's edition-sensitive literal forms (optional
// chaining '?.', nullish coalescing '??', numeric separators '1_000') on
// an embedder-supplied config.Options. Without WithConfig, the lexer scans
// as config.DefaultEdition (es2015), predating all of them.
func WithConfig(cfg config.Options) Opt {
	return func(c *lexConfig) { c.edition = cfg }
}

// Lexer is the byte-scanning half of the two-layer classifier. A Lexer is
// not safe for concurrent use; each session owns exactly one Lexer over
// exactly one immutable source buffer.
type Lexer struct {
	input []byte
	pos   int
	line  int

	// brackets tracks open-bracket kinds so the parser's ternary colon
	// and template-resume rules can be resolved without its own stack.
	brackets []token.Kind

	// pendingTBrace, when true, causes the next Next call to emit a
	// synthetic T_BRACE of length 2 without rescanning ${.
	pendingTBrace bool
	// resumeTemplate, when true, causes the next Next call to scan a
	// template-body continuation (STRING) from the current position
	// without consuming an opening backtick.
	resumeTemplate bool

	telemetry TelemetryMode
	debug     DebugLevel
	logger    *slog.Logger
	counts    map[token.Kind]int

	// optionalChaining and numericSeparators gate edition-sensitive literal
	// forms that would otherwise be ambiguous with older syntax ('?.' vs a
	// ternary's '?' against a fractional literal; '_' inside a number vs an
	// identifier boundary). Derived once, at construction, from WithConfig.
	optionalChaining  bool
	numericSeparators bool
}

// newDebugLogger builds the same terse, timestamp/level-free text handler
// package parser uses, so lexer and parser trace output interleave
// readably when both are run with debug enabled.
func newDebugLogger(level DebugLevel) *slog.Logger {
	logLevel := slog.LevelInfo
	if level >= DebugDetailed {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// New constructs a Lexer over input, which must remain valid and unmodified
// for the lifetime of the session; emitted tokens slice directly into it.
func New(input []byte, opts ...Opt) *Lexer {
	cfg := &lexConfig{edition: config.Options{Edition: config.DefaultEdition}}
	for _, opt := range opts {
		opt(cfg)
	}
	l := &Lexer{
		telemetry:         cfg.telemetry,
		debug:             cfg.debug,
		optionalChaining:  cfg.edition.AtLeast("es2020"),
		numericSeparators: cfg.edition.AtLeast("es2021"),
	}
	if cfg.telemetry > TelemetryOff {
		l.counts = make(map[token.Kind]int)
	}
	if cfg.debug > DebugOff {
		l.logger = newDebugLogger(cfg.debug)
	}
	l.Init(input)
	return l
}

// Init resets the lexer to scan a new buffer from the beginning, following
// the standard library scanner convention of separating construction from
// (re)initialization.
func (l *Lexer) Init(input []byte) {
	l.input = input
	l.pos = 0
	l.line = 1
	l.brackets = l.brackets[:0]
	l.pendingTBrace = false
	l.resumeTemplate = false
	// A file beginning with a shebang is conventionally treated as if it
	// opens with a line comment; the first Next call consumes it like any
	// other leading comment.
}

// Counts returns per-kind token counts collected when telemetry is
// enabled; nil when WithTelemetry was left at TelemetryOff.
func (l *Lexer) Counts() map[token.Kind]int {
	if l.telemetry == TelemetryOff || l.counts == nil {
		return nil
	}
	out := make(map[token.Kind]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

// Next scans and returns the next token. hv disambiguates a leading '/'
// and is ignored for every other byte.
func (l *Lexer) Next(hv HasValue) (token.Token, error) {
	if l.resumeTemplate {
		l.resumeTemplate = false
		return l.scanTemplateContinuation()
	}
	if l.pendingTBrace {
		l.pendingTBrace = false
		return l.emitTBrace()
	}

	l.skipSpace()

	if c, ok := l.peekComment(); ok {
		tok := l.scanComment(c)
		l.record(tok.Kind)
		return tok, nil
	}

	if l.pos >= len(l.input) {
		return token.Token{Kind: token.EOF, Line: 0}, nil
	}

	startLine := l.line
	c := l.input[l.pos]

	if c == '/' {
		if hv == Ignore {
			return token.Token{}, fmt.Errorf("%w at line %d", ErrSlashWithoutValue, startLine)
		}
		tok, err := l.scanSlash(hv, startLine)
		if err != nil {
			return token.Token{}, err
		}
		l.bookkeep(tok)
		l.record(tok.Kind)
		return tok, nil
	}

	tok, err := l.scanOne(startLine)
	if err != nil {
		return token.Token{}, err
	}
	l.bookkeep(tok)
	l.record(tok.Kind)
	return tok, nil
}

func (l *Lexer) record(k token.Kind) {
	if l.debug >= DebugPaths && l.logger != nil {
		l.logger.Info("scan", "kind", k, "line", l.line)
	}
	if l.telemetry == TelemetryOff || l.counts == nil {
		return
	}
	l.counts[k]++
}

// bookkeep pops the bracket stack on a CLOSE token. Opens are pushed at
// the point they are recognized in scanOne (and emitTBrace for T_BRACE),
// since only there is the specific bracket kind known. A popped T_BRACE
// arms template resumption for the following Next call.
func (l *Lexer) bookkeep(tok token.Token) {
	if tok.Kind != token.CLOSE {
		return
	}
	if len(l.brackets) == 0 {
		return
	}
	top := l.brackets[len(l.brackets)-1]
	l.brackets = l.brackets[:len(l.brackets)-1]
	if top == token.TBrace {
		l.resumeTemplate = true
	}
}

// topBracket reports the innermost open bracket kind, if any.
func (l *Lexer) topBracket() (token.Kind, bool) {
	if len(l.brackets) == 0 {
		return 0, false
	}
	return l.brackets[len(l.brackets)-1], true
}

func (l *Lexer) pushBracket(k token.Kind) error {
	if len(l.brackets) >= bracketStackSize {
		return ErrBracketOverflow
	}
	l.brackets = append(l.brackets, k)
	return nil
}

// emitTBrace hands back the '${' the string scanner stopped just short of:
// the STRING token it emitted covers bytes up to (not including) the '$',
// so this call advances over exactly those two bytes without rescanning.
func (l *Lexer) emitTBrace() (token.Token, error) {
	start := l.pos
	l.pos += 2 // '$' '{'
	tok := token.Token{Kind: token.TBrace, Line: l.line, Bytes: l.input[start:l.pos]}
	if err := l.pushBracket(token.TBrace); err != nil {
		return token.Token{}, err
	}
	l.record(tok.Kind)
	return tok, nil
}

// Package parser implements the pushdown-automaton layer on top of
// package lexer: it resolves the ambiguities the lexer alone cannot
// (division vs regexp, the ternary colon, async-arrow vs call), inserts
// the virtual ASI/START/ATTACH tokens a downstream consumer needs to find
// statement boundaries without building a tree, and classifies every
// identifier that reaches the sink as SYMBOL, KEYWORD or LABEL.
//
// Run drives one cooperative, single-threaded pull loop: it asks the
// lexer for exactly one token at a time, with a has_value hint computed
// from the parser's own state, and hands it to whichever frame is
// currently on top of the bounded parse-context stack.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/opalscript/ecmalex/config"
	"github.com/opalscript/ecmalex/invariant"
	"github.com/opalscript/ecmalex/lexer"
	"github.com/opalscript/ecmalex/token"
)

// Sink receives every real, virtual and comment token the parser
// produces, in strict source order.
type Sink func(token.Token)

type TelemetryMode int

const (
	TelemetryOff TelemetryMode = iota
	TelemetryBasic
	TelemetryTiming
)

type DebugLevel int

const (
	DebugOff DebugLevel = iota
	DebugPaths
	DebugDetailed
)

type Opt func(*Parser)

// WithTelemetry enables lightweight per-kind token counters, retrievable
// after Run returns via Counts.
func WithTelemetry(mode TelemetryMode) Opt { return func(p *Parser) { p.telemetry = mode } }

// WithDebug gates step-by-step logging of frame transitions through
// log/slog; DebugOff (the default) costs nothing.
func WithDebug(level DebugLevel) Opt { return func(p *Parser) { p.debug = level } }

// WithModuleMode enables the MODULE statement forms (import/export) and
// starts the session in strict context, matching a module's implicit
// strict mode.
func WithModuleMode(isModule bool) Opt {
	return func(p *Parser) { p.isModule = isModule }
}

// WithConfig applies an embedder-supplied config.Options: its
// ExtraReservedWords are classified as KEYWORD wherever classifyIdent would
// otherwise treat them as an ordinary SYMBOL, and ModuleMode is folded into
// WithModuleMode's effect. The target edition itself is consumed by
// lexer.WithConfig, not here — the parser classifies tokens the lexer has
// already decided to emit, it does not re-scan them.
func WithConfig(cfg config.Options) Opt {
	return func(p *Parser) {
		if len(cfg.ExtraReservedWords) > 0 {
			p.extraReserved = make(map[string]struct{}, len(cfg.ExtraReservedWords))
			for _, w := range cfg.ExtraReservedWords {
				p.extraReserved[w] = struct{}{}
			}
		}
		if cfg.ModuleMode {
			p.isModule = true
		}
	}
}

// Parser holds the single lexer pull-source, the bounded frame stack, and
// the small amount of cross-token state the pushdown machine needs.
type Parser struct {
	lex   *lexer.Lexer
	stack *stack
	sink_ Sink

	isModule  bool
	telemetry TelemetryMode
	debug     DebugLevel
	logger    *slog.Logger

	// extraReserved holds embedder-added reserved words from WithConfig,
	// classified as KEYWORD by classifyIdent alongside the built-in set.
	extraReserved map[string]struct{}

	counts map[token.Kind]int
}

// newDebugLogger builds the terse, timestamp/level-free text handler used
// for step-by-step frame tracing: one line per dispatch, readable in a
// terminal without the usual structured-log ceremony.
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

// New constructs a Parser. The lexer and sink are supplied to Run, not
// here, so a single configured Parser can drive multiple independent
// sessions.
func New(opts ...Opt) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Counts returns the per-Kind token counter snapshot gathered when
// WithTelemetry was enabled; nil otherwise.
func (p *Parser) Counts() map[token.Kind]int { return p.counts }

// Run drives one full parse session over lex, delivering every token to
// sink, and returns a Status. A negative Status means the session ended
// early; tokens already delivered before that point remain a valid
// partial stream.
func (p *Parser) Run(lex *lexer.Lexer, sink Sink) (status Status) {
	invariant.NotNil(lex, "lex")
	invariant.NotNil(sink, "sink")

	p.lex = lex
	p.sink_ = sink
	p.stack = newStack()
	if p.isModule {
		p.stack.top().ctx |= ctxStrict
	}
	if p.telemetry != TelemetryOff {
		p.counts = make(map[token.Kind]int)
	}
	if p.debug != DebugOff {
		p.logger = newDebugLogger(p.debug)
	}

	defer func() {
		if r := recover(); r != nil {
			status = StatusInternal
		}
	}()

	return p.run()
}

func (p *Parser) run() Status {
	for {
		hv := p.computeHV()
		tok, err := p.lex.Next(hv)
		if err != nil {
			return classifyLexError(err)
		}

		if tok.Kind == token.EOF {
			if err := p.drainAtEOF(); err != nil {
				return StatusStack
			}
			p.sink(tok)
			return StatusOK
		}

		if tok.Kind == token.COMMENT {
			// comments are forwarded to the sink unmodified and never
			// dispatched to a frame: they carry no grammatical weight and
			// must not perturb ASI/"previous token" bookkeeping (a comment
			// immediately before a statement is not that statement's
			// previous value-bearing token).
			p.sinkComment(tok)
			continue
		}

		// A frame dispatch that returns consumed=false pushed or popped a
		// frame and wants tok retried against the new top; this can chain
		// through several zero-width transitions (MODULE/ASYNC/FUNC/CLASS
		// all pop-and-retry this way), so retry until either something
		// consumes tok or the depth stops changing.
		depth := p.stack.depth()
		for {
			consumed, err := p.dispatch(tok)
			if err != nil {
				return StatusStack
			}
			if consumed {
				break
			}
			if p.stack.depth() == depth {
				return StatusInternal
			}
			depth = p.stack.depth()
		}
	}
}

func classifyLexError(err error) Status {
	if errors.Is(err, lexer.ErrSlashWithoutValue) {
		return StatusValue
	}
	return StatusStack
}

// drainAtEOF closes out any frames still open when the lexer reaches EOF.
// The end of the input stream is itself an ASI trigger (the same rule that
// inserts a semicolon before a value-like token on a new line also fires
// when there is no further token at all): a trailing unbracketed
// expression statement, or a restricted-operand keyword with no operand
// and no semicolon, both close out this way. A FUNC or CLASS frame whose
// body has already closed is popped, and a do-while tail still waiting for
// its ';' gets a virtual one. Anything else still open (an unterminated
// block, bracket, or control construct) is a genuine stack-balance
// failure; the token stream already delivered remains valid, so Run
// reports the failure via Status rather than panicking.
func (p *Parser) drainAtEOF() error {
	for p.stack.depth() > 1 {
		f := p.stack.top()
		if (f.stype == sFunc && f.funcPhase == funcDone) || (f.stype == sClass && f.classPhase == classDone) {
			p.stack.pop()
			continue
		}
		if f.stype == sDoTail && f.doTailPhase == doTailAwaitingSemicolon {
			p.emitVirtualSemicolon(f.doLine)
			p.stack.pop()
			continue
		}
		if f.stype != sExpr || f.openKind != token.EOF {
			return errUnbalanced
		}
		if f.restrictedLine != 0 {
			p.emitVirtualSemicolon(f.restrictedLine)
			p.stack.pop()
			continue
		}
		if !valueLike(f.prev) {
			return errUnbalanced
		}
		p.emitVirtualSemicolon(f.prevLine)
		p.stack.pop()
	}
	return nil
}

var errUnbalanced = fmt.Errorf("parser: frames still open at EOF")

// computeHV derives the has_value hint the lexer needs to resolve a
// leading '/' from the most recently sunk token's kind.
func (p *Parser) computeHV() lexer.HasValue {
	f := p.stack.top()
	if valueLike(f.prev) {
		return lexer.Yes
	}
	return lexer.No
}

// dispatch hands tok to the step function for the current top frame's
// stype.
func (p *Parser) dispatch(tok token.Token) (bool, error) {
	f := p.stack.top()
	if p.debug >= DebugPaths {
		p.logger.Info("dispatch", "stype", f.stype, "depth", p.stack.depth(), "tok", tok.Kind)
	}
	switch f.stype {
	case sBlock:
		return p.stepBlock(f, tok)
	case sExpr:
		return p.stepExpr(f, tok)
	case sControl:
		return p.stepControl(f, tok)
	case sDict:
		return p.stepDict(f, tok)
	case sFunc:
		return p.stepFunc(f, tok)
	case sClass:
		return p.stepClass(f, tok)
	case sModule:
		return p.stepModule(f, tok)
	case sAsync:
		return p.stepAsync(f, tok)
	case sDoTail:
		return p.stepDoTail(f, tok)
	default:
		return true, nil
	}
}

// sink delivers tok to the caller's Sink and records its kind/line on the
// current top frame so computeHV and ASI logic can see "what came before"
// without re-inspecting the sink's side effects.
func (p *Parser) sink(tok token.Token) {
	if p.counts != nil {
		p.counts[tok.Kind]++
	}
	f := p.stack.top()
	f.prev = tok.Kind
	f.prevHash = tok.Hash
	f.prevLine = tok.Line
	p.sink_(tok)
}

func (p *Parser) sinkKeyword(tok token.Token) { p.sink(keywordize(tok)) }

// sinkComment delivers a COMMENT token to the sink without recording it as
// the current frame's "previous token" — comments are transparent to every
// rule (ASI, value-likeness, statement boundaries) that inspects prev.
func (p *Parser) sinkComment(tok token.Token) {
	if p.counts != nil {
		p.counts[tok.Kind]++
	}
	p.sink_(tok)
}

func symbolize(tok token.Token) token.Token {
	tok.Kind = token.SYMBOL
	return tok
}

func keywordize(tok token.Token) token.Token {
	tok.Kind = token.KEYWORD
	return tok
}

// opify reclassifies a provisional LIT as OP: used for the unary-op
// keywords (typeof, void, delete, new, and await/yield while active) and
// the relational-op keywords (in, instanceof), all of which behave as
// operators rather than declarative reserved words wherever they appear.
func opify(tok token.Token) token.Token {
	tok.Kind = token.OP
	return tok
}

// classifyIdent resolves a provisional LIT into SYMBOL or KEYWORD per the
// current context: unconditional keywords are always KEYWORD, await/yield
// only inside an async/generator body (ctxAsync/ctxGenerator), other
// context-sensitive reserved words only in strict mode, and everything
// else (including masquerade words not positionally promoted) is SYMBOL.
func (p *Parser) classifyIdent(tok token.Token, ctx context) token.Token {
	h := tok.Hash
	if !h.IsKeyword() {
		if len(p.extraReserved) > 0 {
			if _, ok := p.extraReserved[tok.Text()]; ok {
				return keywordize(tok)
			}
		}
		return symbolize(tok)
	}
	switch h.Word() {
	case token.WordAwait:
		if ctx.has(ctxAsync) {
			return keywordize(tok)
		}
		return symbolize(tok)
	case token.WordYield:
		if ctx.has(ctxGenerator) {
			return keywordize(tok)
		}
		return symbolize(tok)
	}
	if h.IsContextual() && !ctx.has(ctxStrict) {
		return symbolize(tok)
	}
	return keywordize(tok)
}

// --- frame-push helpers shared across step functions ---

func (p *Parser) pushBlock(ctx context) error {
	return p.stack.push(frame{stype: sBlock, ctx: ctx})
}

func (p *Parser) pushDict() error {
	ctx := p.stack.top().ctx
	return p.stack.push(frame{stype: sDict, ctx: ctx})
}

// pushExprBracket opens an EXPR frame for a bracket-delimited region
// (PAREN grouping/call/args, ARRAY literal; object literals get a DICT
// frame via openDict instead). The frame pops when its matching CLOSE is
// seen.
func (p *Parser) pushExprBracket(openKind token.Kind) error {
	ctx := p.stack.top().ctx
	return p.stack.push(frame{stype: sExpr, ctx: ctx, openKind: openKind})
}

// pushExprPlain opens an unbracketed EXPR frame for a single expression
// with no explicit terminator, such as a class's extends clause. It pops
// itself as soon as it sees a token that cannot continue the expression.
func (p *Parser) pushExprPlain(ctx context) error {
	return p.stack.push(frame{stype: sExpr, ctx: ctx, openKind: token.EOF})
}

// openBracketExpr sinks a bracket-opening token (PAREN/ARRAY) and
// pushes the EXPR frame that will own its contents, in one step — the
// opener must never be left for the new frame to see again.
func (p *Parser) openBracketExpr(tok token.Token) error {
	p.sink(tok)
	return p.pushExprBracket(tok.Kind)
}

// openBlock sinks a '{' that starts a nested block statement (as EXEC) and
// pushes its BLOCK frame.
func (p *Parser) openBlock(tok token.Token, ctx context) error {
	tok.Kind = token.EXEC
	p.sink(tok)
	return p.pushBlock(ctx)
}

// openDict sinks a '{' that starts an object or class body (as DICT) and
// pushes its DICT frame.
func (p *Parser) openDict(tok token.Token) error {
	tok.Kind = token.DICT
	p.sink(tok)
	return p.pushDict()
}

// pushExprStatement is pushExprPlain with attached set; like any
// unbracketed EXPR frame it pops on its own SEMICOLON (real or
// ASI-inserted). Used for every expression statement (via
// pushExprTopLevel) and for a do-while's unbraced body.
func (p *Parser) pushExprStatement(ctx context) error {
	return p.stack.push(frame{stype: sExpr, ctx: ctx, openKind: token.EOF, attached: true})
}

package parser

import "github.com/opalscript/ecmalex/token"

// stepBlock dispatches at statement level: every call either starts a new
// statement (emitting a virtual START first, unless the previous
// statement's frame already emitted an ATTACH for this slot) or forwards
// bookkeeping tokens (CLOSE for the enclosing brace, a label's colon).
func (p *Parser) stepBlock(f *frame, tok token.Token) (consumed bool, err error) {
	if tok.Kind == token.CLOSE {
		p.sink(tok)
		p.stack.pop()
		return true, nil
	}

	isFirstStmt := !f.sawStatement
	switch {
	case f.attached:
		// already mid-statement: this token is glued to it.
	case isContinuationKeyword(tok):
		// else/catch/finally continue the preceding if/try without a
		// START of their own; their own body is glued in turn.
		f.attached = true
		f.sawStatement = true
	default:
		p.sink(token.Token{Kind: token.START, Line: tok.Line})
		f.attached = true
		f.sawStatement = true
	}

	switch tok.Kind {
	case token.SEMICOLON:
		p.sink(tok)
		f.attached = false
		return true, nil

	case token.BRACE:
		f.attached = false
		return true, p.openBlock(tok, f.ctx)

	case token.STRING:
		if isFirstStmt && isUseStrictLiteral(tok.Bytes) {
			f.ctx |= ctxStrict
		}
		f.attached = false
		return false, p.pushExprTopLevel(f.ctx)

	case token.LIT:
		if consumed, err, handled := p.stepBlockKeyword(f, tok); handled {
			return consumed, err
		}
		if isLabelCandidate(tok) {
			return true, p.pushLabelCandidate(f.ctx, tok)
		}
		f.attached = false
		return false, p.pushExprTopLevel(f.ctx)

	default:
		f.attached = false
		return false, p.pushExprTopLevel(f.ctx)
	}
}

// pushExprTopLevel opens the EXPR frame that handles one statement's
// worth of expression, ending at its own SEMICOLON/ASI. tok has not been
// consumed yet; the caller retries it against the new frame.
func (p *Parser) pushExprTopLevel(ctx context) error {
	return p.pushExprStatement(ctx)
}

// stepBlockKeyword handles the keywords meaningful only at statement
// start. It returns handled=false when tok should fall through to the
// generic expression-statement path (including masquerade words and
// ordinary identifiers, which may yet turn out to be a label).
func (p *Parser) stepBlockKeyword(f *frame, tok token.Token) (consumed bool, err error, handled bool) {
	h := tok.Hash
	if !h.IsKeyword() {
		return false, nil, false
	}

	switch h.Word() {
	case token.WordVar, token.WordConst:
		p.sinkKeyword(tok)
		return true, nil, true

	case token.WordLet:
		p.sinkKeyword(tok)
		return true, nil, true

	case token.WordFunction:
		p.sinkKeyword(tok)
		f.attached = false
		return true, p.pushFunc(), true

	case token.WordClass:
		p.sinkKeyword(tok)
		f.attached = false
		return true, p.pushClass(), true

	case token.WordIf, token.WordWhile, token.WordSwitch, token.WordFor, token.WordCatch, token.WordWith:
		p.sinkKeyword(tok)
		err := p.pushControl(h)
		return true, err, true

	case token.WordDo:
		p.sinkKeyword(tok)
		p.sink(token.Token{Kind: token.ATTACH, Line: tok.Line})
		f.attached = false
		return true, p.pushDoTail(tok.Line), true

	case token.WordElse, token.WordTry, token.WordFinally:
		p.sinkKeyword(tok)
		p.sink(token.Token{Kind: token.ATTACH, Line: tok.Line})
		return true, nil, true

	case token.WordReturn, token.WordThrow, token.WordBreak, token.WordContinue:
		p.sinkKeyword(tok)
		f.attached = false
		return true, p.pushRestrictedOperand(f.ctx, tok.Line), true

	case token.WordDebugger:
		p.sinkKeyword(tok)
		return true, nil, true

	case token.WordImport, token.WordExport:
		if !p.isModule {
			break
		}
		p.sinkKeyword(tok)
		return true, p.stack.push(frame{stype: sModule, ctx: f.ctx}), true
	}

	return false, nil, false
}

// isContinuationKeyword reports whether tok continues a preceding
// compound statement (an if's 'else', a try's 'catch'/'finally') rather
// than starting a new one, so no START token precedes it.
func isContinuationKeyword(tok token.Token) bool {
	if tok.Kind != token.LIT {
		return false
	}
	switch tok.Hash.Word() {
	case token.WordElse, token.WordCatch, token.WordFinally:
		return true
	}
	return false
}

// isUseStrictLiteral reports whether a STRING token's raw bytes (including
// its quotes) spell exactly 'use strict' or "use strict".
func isUseStrictLiteral(b []byte) bool {
	s := string(b)
	return s == "'use strict'" || s == `"use strict"`
}

// pushRestrictedOperand opens the EXPR frame that holds a
// return/throw/break/continue's optional operand. Its first token is
// checked against the restricted-ASI rule in stepExpr before being
// treated as the start of an expression.
func (p *Parser) pushRestrictedOperand(ctx context, line int) error {
	return p.stack.push(frame{
		stype:          sExpr,
		ctx:            ctx,
		openKind:       token.EOF,
		attached:       true,
		restrictedLine: line,
	})
}

package parser

import "github.com/opalscript/ecmalex/token"

// isTernaryColonClose reports whether tok is the CLOSE the lexer emits
// for a ternary's ':' (popped off its own bracket stack, not ours): it
// carries the colon's single byte rather than one of ')', ']', '}'.
func isTernaryColonClose(tok token.Token) bool {
	return tok.Kind == token.CLOSE && len(tok.Bytes) == 1 && tok.Bytes[0] == ':'
}

// canEndPlainExpr reports whether tok is a token that cannot continue an
// unbracketed expression, meaning an openKind==EOF EXPR frame should pop
// and let the enclosing frame handle it instead. SEMICOLON and CLOSE are
// handled by their own branches before this is ever consulted; the
// remaining case is a '{' arriving once the frame already holds a
// complete value (a class's extends clause ending at its body brace) as
// opposed to one still expecting an operand (an object literal).
func canEndPlainExpr(f *frame, tok token.Token) bool {
	return tok.Kind == token.BRACE && valueLike(f.prev)
}

// stepExpr is the largest state: it covers every bracket-delimited region
// (grouping, call arguments, array literals) and every unbracketed
// expression (statement-level expressions, restricted-keyword operands,
// extends clauses, arrow bodies).
func (p *Parser) stepExpr(f *frame, tok token.Token) (consumed bool, err error) {
	if f.restrictedLine != 0 && f.prev == token.EOF {
		if p.restrictedASI(f.restrictedLine, tok) {
			p.emitVirtualSemicolon(f.restrictedLine)
			p.stack.pop()
			return false, nil
		}
		f.restrictedLine = 0
	}

	if f.labelPending {
		f.labelPending = false
		if tok.Kind == token.COLON {
			resolved := f.labelTok
			resolved.Kind = token.LABEL
			resolved.Mark = token.Resolve
			p.sink(resolved)
			p.sink(tok)
			p.sink(token.Token{Kind: token.ATTACH, Line: tok.Line})
			p.stack.pop()
			return true, nil
		}
		// not a label after all: the provisional classification already
		// sunk for labelTok stands, and tok is simply this expression's
		// next token. The enclosing BLOCK never saw this resolved, so it
		// still needs its attached reset for when this frame eventually
		// pops at its own statement-ending semicolon.
		p.stack.setParentAttached(false)
	}

	if f.freshArrowBody {
		f.freshArrowBody = false
		if tok.Kind == token.BRACE {
			return true, p.openBlock(tok, f.ctx)
		}
		// expression-bodied arrow: tok is just the body's first token,
		// handled by this same frame's ordinary rules (including its
		// existing bracket/statement terminator).
	}

	// A real bracket close (not a ternary colon) ends this frame if it is
	// itself bracket-delimited.
	if tok.Kind == token.CLOSE && !isTernaryColonClose(tok) {
		if f.openKind == token.PAREN || f.openKind == token.ARRAY || f.openKind == token.BRACE {
			p.sink(tok)
			p.stack.pop()
			// the enclosing expression's previous token is this close.
			if top := p.stack.top(); top.stype == sExpr {
				top.prev, top.prevHash, top.prevLine = tok.Kind, tok.Hash, tok.Line
			}
			return true, nil
		}
		// an unbracketed (openKind==EOF) frame does not own this close;
		// let the enclosing frame handle it.
		p.stack.pop()
		return false, nil
	}

	if f.openKind == token.EOF {
		if tok.Kind == token.SEMICOLON {
			p.sink(tok)
			p.stack.pop()
			return true, nil
		}
		if canEndPlainExpr(f, tok) {
			p.stack.pop()
			return false, nil
		}
		// ASI for a value-like token on a new line: if the previous token
		// ended a complete expression and tok starts on a later line with
		// no operator between them, a statement boundary is implied.
		if valueLike(f.prev) && tok.Line != f.prevLine && f.prevLine != 0 &&
			(valueLike(tok.Kind) || (tok.Kind == token.LIT)) {
			p.emitVirtualSemicolon(f.prevLine)
			p.stack.pop()
			return false, nil
		}
	}

	switch tok.Kind {
	case token.PAREN:
		return true, p.openBracketExpr(tok)
	case token.ARRAY:
		return true, p.openBracketExpr(tok)
	case token.BRACE:
		return true, p.openDict(tok)
	case token.TERNARY:
		p.sink(tok)
		return true, nil
	case token.ARROW:
		// a bare identifier or a just-closed parameter list followed by
		// '=>': this same frame continues on as the arrow's body, not a
		// new operand.
		p.sink(tok)
		f.freshArrowBody = true
		return true, nil
	case token.OP:
		return p.stepExprOp(f, tok)
	case token.LIT:
		return p.stepExprIdent(f, tok)
	default:
		p.sink(tok)
		return true, nil
	}
}

func (p *Parser) stepExprOp(f *frame, tok token.Token) (bool, error) {
	if tok.Hash.Word() == token.WordOpIncDec && valueLike(f.prev) && tok.Line != f.prevLine && f.prevLine != 0 {
		// postfix ++/-- is a restricted production: a newline before it
		// ends the previous statement instead.
		p.emitVirtualSemicolon(f.prevLine)
		p.stack.pop()
		return false, nil
	}
	p.sink(tok)
	return true, nil
}

func (p *Parser) stepExprIdent(f *frame, tok token.Token) (bool, error) {
	h := tok.Hash

	// async prefix: 'async' immediately before a function/arrow. pushAsync
	// sinks tok itself (as the provisional token awaiting resolution), so
	// this token is already consumed.
	if h.IsMasquerade() && h.Word() == token.WordAsync {
		return true, p.pushAsync(tok)
	}

	if h.IsKeyword() {
		switch h.Word() {
		case token.WordFunction:
			p.sinkKeyword(tok)
			return true, p.pushFunc()
		case token.WordClass:
			p.sinkKeyword(tok)
			return true, p.pushClass()
		case token.WordNew, token.WordDelete, token.WordTypeof, token.WordVoid:
			// unconditional unary-operator keywords: always OP, never
			// plain KEYWORD, wherever they appear as an expression operand.
			p.sink(opify(tok))
			return true, nil
		case token.WordYield:
			if f.ctx.has(ctxGenerator) {
				p.sink(opify(tok))
				return true, nil
			}
		case token.WordAwait:
			if f.ctx.has(ctxAsync) {
				p.sink(opify(tok))
				return true, nil
			}
		case token.WordIn, token.WordInstanceof:
			// relational-operator keywords: always OP.
			p.sink(opify(tok))
			return true, nil
		}
	}

	if h.IsMasquerade() && h.Word() == token.WordOf && f.openKind == token.PAREN && f.prev != token.EOF {
		// 'of' after the first token of a for head's parentheses: for-of's
		// operator, treated as OP. Anywhere else it is classified like any
		// other identifier below.
		if d := p.stack.depth(); d >= 2 {
			if parent := p.stack.frames[d-2]; parent.stype == sControl && parent.startTag.Word() == token.WordFor {
				tok.Kind = token.OP
				p.sink(tok)
				return true, nil
			}
		}
	}

	p.sink(p.classifyIdent(tok, f.ctx))
	return true, nil
}

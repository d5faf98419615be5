package parser

import "github.com/opalscript/ecmalex/token"

const (
	controlExpectParen uint8 = iota
	controlAfterParen
)

// pushControl opens a CONTROL frame right after a paren-headed keyword
// (if, for, while, switch, catch, with) has been sunk as KEYWORD.
func (p *Parser) pushControl(startTag token.Hash) error {
	return p.stack.push(frame{
		stype:    sControl,
		ctx:      p.stack.top().ctx,
		startTag: startTag,
	})
}

func (p *Parser) stepControl(f *frame, tok token.Token) (consumed bool, err error) {
	switch f.controlPhase {
	case controlExpectParen:
		if tok.Kind == token.PAREN {
			f.controlPhase = controlAfterParen
			return true, p.openBracketExpr(tok)
		}
		// malformed control head; stay permissive and pass the token on.
		p.sink(tok)
		return true, nil

	default: // controlAfterParen: the head's EXPR(PAREN) has just popped.
		p.sink(token.Token{Kind: token.ATTACH, Line: tok.Line})
		p.stack.pop()
		return false, nil
	}
}

// pushDoTail opens the sDoTail frame right after 'do' has been sunk as
// KEYWORD and the body's ATTACH has been emitted.
func (p *Parser) pushDoTail(doLine int) error {
	return p.stack.push(frame{stype: sDoTail, ctx: p.stack.top().ctx, doLine: doLine})
}

const (
	doTailAwaitingBody uint8 = iota
	doTailAwaitingWhile
	doTailAwaitingParen
	doTailAwaitingSemicolon
)

func (p *Parser) stepDoTail(f *frame, tok token.Token) (consumed bool, err error) {
	switch f.doTailPhase {
	case doTailAwaitingBody:
		if tok.Kind == token.BRACE {
			f.doTailPhase = doTailAwaitingWhile
			return true, p.openBlock(tok, f.ctx)
		}
		f.doTailPhase = doTailAwaitingWhile
		return false, p.pushExprStatement(f.ctx)

	case doTailAwaitingWhile:
		if tok.Kind == token.LIT && tok.Hash.Word() == token.WordWhile {
			p.sinkKeyword(tok)
			f.doTailPhase = doTailAwaitingParen
			return true, nil
		}
		// malformed: no while tail; stay permissive.
		p.stack.pop()
		return false, nil

	case doTailAwaitingParen:
		if tok.Kind == token.PAREN {
			f.doTailPhase = doTailAwaitingSemicolon
			return true, p.openBracketExpr(tok)
		}
		p.sink(tok)
		return true, nil

	default: // doTailAwaitingSemicolon
		if tok.Kind == token.SEMICOLON {
			p.sink(tok)
			p.stack.pop()
			return true, nil
		}
		p.emitVirtualSemicolon(f.doLine)
		p.stack.pop()
		return false, nil
	}
}

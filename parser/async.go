package parser

import "github.com/opalscript/ecmalex/token"

// ASYNC phases. An ASYNC frame is pushed the moment a masquerade 'async'
// identifier is seen in value position; it resolves within one or two
// further tokens into either an async-arrow function (KEYWORD) or a plain
// identifier used as a value (SYMBOL), per the deferred resolution
// protocol: the original 'async' token is sunk immediately with its
// provisional classification, and a later Resolve-marked copy overwrites
// it once the real classification is known.
const (
	asyncJustPushed uint8 = iota
	asyncAfterIdent
	asyncAwaitingArrowAfterParen
)

// pushAsync records the provisional 'async' token and pushes the transient
// ASYNC frame that will resolve it.
func (p *Parser) pushAsync(asyncTok token.Token) error {
	p.sink(asyncTok) // provisional: Kind LIT, unresolved
	return p.stack.push(frame{
		stype:      sAsync,
		ctx:        p.stack.top().ctx,
		asyncPhase: asyncJustPushed,
		asyncTok:   asyncTok,
	})
}

func (p *Parser) stepAsync(f *frame, tok token.Token) (consumed bool, err error) {
	switch f.asyncPhase {
	case asyncJustPushed:
		switch {
		case tok.Kind == token.LIT && tok.Hash.Word() == token.WordFunction:
			p.resolveAsync(f, token.KEYWORD)
			p.sinkKeyword(tok)
			p.stack.pop()
			return true, p.pushFuncAsync()
		}
		switch tok.Kind {
		case token.LIT:
			p.sink(symbolize(tok))
			f.asyncPhase = asyncAfterIdent
			return true, nil
		case token.PAREN:
			f.asyncPhase = asyncAwaitingArrowAfterParen
			return true, p.openBracketExpr(tok)
		default:
			p.resolveAsync(f, token.SYMBOL)
			p.stack.pop()
			return false, nil
		}

	case asyncAfterIdent:
		if tok.Kind == token.ARROW {
			return true, p.resolveAsyncArrow(f, tok)
		}
		p.resolveAsync(f, token.SYMBOL)
		p.stack.pop()
		return false, nil

	default: // asyncAwaitingArrowAfterParen
		if tok.Kind == token.ARROW {
			return true, p.resolveAsyncArrow(f, tok)
		}
		p.resolveAsync(f, token.SYMBOL)
		p.stack.pop()
		return false, nil
	}
}

// resolveAsyncArrow finalizes an async-arrow resolution: the transient
// ASYNC frame is discarded entirely rather than repurposed, so the
// expression frame that pushed it (the one actually tracking this
// statement's or argument's terminator) picks up the arrow body directly,
// the same way a plain (non-async) arrow continues on its own frame.
// Mutating the ASYNC frame in place instead would leave it permanently
// stacked above its caller, which would never see its own terminator.
func (p *Parser) resolveAsyncArrow(f *frame, arrow token.Token) error {
	p.resolveAsync(f, token.KEYWORD)
	p.stack.pop()
	caller := p.stack.top()
	p.sink(arrow)
	caller.freshArrowBody = true
	caller.ctx |= ctxAsync
	return nil
}

// resolveAsync re-emits the originally provisional 'async' token with its
// final Kind and Mark set to Resolve, instructing the consumer to overwrite
// the earlier provisional classification carrying the same line and bytes.
func (p *Parser) resolveAsync(f *frame, kind token.Kind) {
	resolved := f.asyncTok
	resolved.Kind = kind
	resolved.Mark = token.Resolve
	p.sink(resolved)
}

package parser

import "github.com/opalscript/ecmalex/token"

const (
	classExpectNameOrExtendsOrBody uint8 = iota
	classExpectExtendsOrBody
	classExpectBody
	classDone
)

func (p *Parser) pushClass() error {
	ctx := p.stack.top().ctx
	return p.stack.push(frame{stype: sClass, ctx: ctx, classPhase: classExpectNameOrExtendsOrBody})
}

func (p *Parser) stepClass(f *frame, tok token.Token) (consumed bool, err error) {
	switch f.classPhase {
	case classExpectNameOrExtendsOrBody:
		switch {
		case tok.Kind == token.LIT && tok.Hash.Word() == token.WordExtends:
			p.sinkKeyword(tok)
			f.classPhase = classExpectBody
			return true, p.pushExprPlain(f.ctx)
		case tok.Kind == token.BRACE:
			f.classPhase = classDone
			return true, p.openDict(tok)
		case tok.Kind == token.LIT:
			p.sink(symbolize(tok))
			f.classPhase = classExpectExtendsOrBody
			return true, nil
		default:
			p.sink(tok)
			return true, nil
		}

	case classExpectExtendsOrBody:
		switch {
		case tok.Kind == token.LIT && tok.Hash.Word() == token.WordExtends:
			p.sinkKeyword(tok)
			f.classPhase = classExpectBody
			return true, p.pushExprPlain(f.ctx)
		case tok.Kind == token.BRACE:
			f.classPhase = classDone
			return true, p.openDict(tok)
		default:
			p.sink(tok)
			return true, nil
		}

	case classExpectBody:
		if tok.Kind == token.BRACE {
			f.classPhase = classDone
			return true, p.openDict(tok)
		}
		p.sink(tok)
		return true, nil

	default: // classDone
		p.stack.pop()
		return false, nil
	}
}

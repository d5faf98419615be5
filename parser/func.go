package parser

import "github.com/opalscript/ecmalex/token"

const (
	funcExpectNameOrParams uint8 = iota
	funcExpectParams
	funcExpectBody
	funcDone
)

// pushFunc opens a FUNC frame for a function declaration/expression or a
// class method body, right after its introducing keyword (or modifier run,
// for a DICT method) has been consumed.
func (p *Parser) pushFunc() error {
	ctx := p.stack.top().ctx
	return p.stack.push(frame{stype: sFunc, ctx: ctx, funcPhase: funcExpectNameOrParams})
}

// pushFuncAsync is pushFunc for an async function, which makes ctxAsync
// available to its body regardless of the enclosing context.
func (p *Parser) pushFuncAsync() error {
	ctx := p.stack.top().ctx | ctxAsync
	return p.stack.push(frame{stype: sFunc, ctx: ctx, funcPhase: funcExpectNameOrParams})
}

func (p *Parser) stepFunc(f *frame, tok token.Token) (consumed bool, err error) {
	switch f.funcPhase {
	case funcExpectNameOrParams:
		switch tok.Kind {
		case token.OP:
			// generator star between 'function' and the name/params.
			if tok.Hash.Word() == token.WordOpStar {
				f.ctx |= ctxGenerator
				p.sink(tok)
				return true, nil
			}
			p.sink(tok)
			return true, nil
		case token.PAREN:
			f.funcPhase = funcExpectBody
			return true, p.openBracketExpr(tok)
		case token.LIT:
			p.sink(symbolize(tok))
			f.funcPhase = funcExpectParams
			return true, nil
		default:
			p.sink(tok)
			return true, nil
		}

	case funcExpectParams:
		if tok.Kind == token.PAREN {
			f.funcPhase = funcExpectBody
			return true, p.openBracketExpr(tok)
		}
		p.sink(tok)
		return true, nil

	case funcExpectBody:
		if tok.Kind == token.BRACE {
			f.funcPhase = funcDone
			return true, p.openBlock(tok, f.ctx)
		}
		// arrow-less, brace-less function body is not legal JS, but stay
		// permissive: treat whatever follows as the body expression.
		f.funcPhase = funcDone
		return false, p.pushExprPlain(f.ctx)

	default: // funcDone: the body frame has closed, so this FUNC is done.
		p.stack.pop()
		return false, nil
	}
}

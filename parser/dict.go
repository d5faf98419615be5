package parser

import "github.com/opalscript/ecmalex/token"

// dictState accumulates the greedy run of method modifiers (static, async,
// get, set, *) a DICT frame sees before a property/method name. A modifier
// word is consumed as a modifier whenever it appears before a name; there
// is no lookahead, so a property or method that is itself named static,
// async, get or set ('{ get() {} }', '{ async: 1 }') is also emitted as
// KEYWORD.
type dictState struct {
	sawStatic bool
	sawAsync  bool
	sawGet    bool
	sawSet    bool
	sawStar   bool
	// afterName marks that a name has been consumed and the frame is
	// waiting for '(' (method), ':' (value), ',' or the closing brace to
	// reset.
	afterName bool
}

func (d *dictState) reset() { *d = dictState{} }

// stepDict advances a DICT frame (object literal or class body). Method and
// property values are not given their own EXPR frame: a value's own
// brackets push their own frames as usual, and the comma/close that ends
// the value lands directly back on this DICT frame once those pop.
func (p *Parser) stepDict(f *frame, tok token.Token) (consumed bool, err error) {
	switch tok.Kind {
	case token.CLOSE:
		p.sink(tok)
		p.stack.pop()
		// the enclosing expression's previous token is this close.
		if top := p.stack.top(); top.stype == sExpr {
			top.prev, top.prevHash, top.prevLine = tok.Kind, tok.Hash, tok.Line
		}
		return true, nil

	case token.OP:
		if tok.Hash.Word() == token.WordOpComma {
			f.dictState.reset()
			p.sink(tok)
			return true, nil
		}
		if tok.Hash.Word() == token.WordOpStar && !f.dictState.afterName {
			f.dictState.sawStar = true
			p.sink(tok)
			return true, nil
		}
		p.sink(tok)
		return true, nil

	case token.COLON:
		p.sink(tok)
		return true, nil

	case token.PAREN:
		f.dictState.afterName = true
		return false, p.pushFunc()

	case token.LIT:
		if !f.dictState.afterName && tok.Hash.IsMasquerade() {
			switch tok.Hash.Word() {
			case token.WordStatic:
				f.dictState.sawStatic = true
				p.sinkKeyword(tok)
				return true, nil
			case token.WordAsync:
				f.dictState.sawAsync = true
				p.sinkKeyword(tok)
				return true, nil
			case token.WordGet:
				f.dictState.sawGet = true
				p.sinkKeyword(tok)
				return true, nil
			case token.WordSet:
				f.dictState.sawSet = true
				p.sinkKeyword(tok)
				return true, nil
			}
		}
		f.dictState.afterName = true
		p.sink(symbolize(tok))
		return true, nil

	case token.STRING, token.NUMBER:
		f.dictState.afterName = true
		p.sink(tok)
		return true, nil

	case token.ARRAY:
		f.dictState.afterName = true
		return true, p.openBracketExpr(tok)

	case token.BRACE:
		return true, p.openDict(tok)

	default:
		p.sink(tok)
		return true, nil
	}
}

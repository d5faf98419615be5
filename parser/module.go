package parser

import "github.com/opalscript/ecmalex/token"

// moduleState drives the small positional state machine a MODULE frame
// uses to walk an import or export clause. 'as' and 'from' are ordinary
// masquerade identifiers everywhere else; they are only promoted to
// KEYWORD while the MODULE frame is in one of the states that expects
// them next.
type moduleState uint8

const (
	modClauseStart moduleState = iota
	modAfterDefault
	modAfterStar
	modAfterStarAs
	modBraceList
	modBraceAfterName
	modBraceAfterAs
	modExpectFrom
	modExpectFromString
	modDefaultValue
	modDone
)

// stepModule advances one import/export clause. Each terminal state pops
// the frame and hands the next token back to the enclosing BLOCK, so the
// clause's ';' is an ordinary statement-level SEMICOLON there; no ASI is
// inserted for a clause that has none.
func (p *Parser) stepModule(f *frame, tok token.Token) (consumed bool, err error) {
	switch f.moduleState {
	case modClauseStart:
		switch {
		case tok.Kind == token.STRING:
			p.sink(tok)
			f.moduleState = modDone
			return true, nil
		case tok.Kind == token.OP && tok.Hash.Word() == token.WordOpStar:
			p.sink(tok)
			f.moduleState = modAfterStar
			return true, nil
		case tok.Kind == token.BRACE:
			tok.Kind = token.DICT
			p.sink(tok)
			f.moduleState = modBraceList
			return true, nil
		case tok.Kind == token.LIT && tok.Hash.Word() == token.WordDefault:
			p.sinkKeyword(tok)
			f.moduleState = modDefaultValue
			return true, nil
		case tok.Kind == token.LIT && !tok.Hash.IsKeyword():
			p.sink(symbolize(tok))
			f.moduleState = modAfterDefault
			return true, nil
		default:
			// export of a declaration (function/class/const/let/var) or a
			// default expression: hand back to the statement dispatcher.
			p.stack.pop()
			return false, nil
		}

	case modAfterDefault:
		if tok.Kind == token.OP && tok.Hash.Word() == token.WordOpComma {
			p.sink(tok)
			return true, nil
		}
		if isWord(tok, token.WordFrom) {
			p.sinkKeyword(tok)
			f.moduleState = modExpectFromString
			return true, nil
		}
		if tok.Kind == token.BRACE {
			tok.Kind = token.DICT
			p.sink(tok)
			f.moduleState = modBraceList
			return true, nil
		}
		if tok.Kind == token.OP && tok.Hash.Word() == token.WordOpStar {
			p.sink(tok)
			f.moduleState = modAfterStar
			return true, nil
		}
		p.stack.pop()
		return false, nil

	case modAfterStar:
		if isWord(tok, token.WordAs) {
			p.sinkKeyword(tok)
			f.moduleState = modAfterStarAs
			return true, nil
		}
		if isWord(tok, token.WordFrom) {
			p.sinkKeyword(tok)
			f.moduleState = modExpectFromString
			return true, nil
		}
		p.sink(tok)
		return true, nil

	case modAfterStarAs:
		p.sink(symbolize(tok))
		f.moduleState = modExpectFrom
		return true, nil

	case modBraceList:
		switch {
		case tok.Kind == token.CLOSE:
			p.sink(tok)
			f.moduleState = modExpectFrom
			return true, nil
		case tok.Kind == token.OP && tok.Hash.Word() == token.WordOpComma:
			p.sink(tok)
			return true, nil
		case tok.Kind == token.LIT:
			p.sink(symbolize(tok))
			f.moduleState = modBraceAfterName
			return true, nil
		default:
			p.sink(tok)
			return true, nil
		}

	case modBraceAfterName:
		if isWord(tok, token.WordAs) {
			p.sinkKeyword(tok)
			f.moduleState = modBraceAfterAs
			return true, nil
		}
		if tok.Kind == token.OP && tok.Hash.Word() == token.WordOpComma {
			f.moduleState = modBraceList
			p.sink(tok)
			return true, nil
		}
		if tok.Kind == token.CLOSE {
			p.sink(tok)
			f.moduleState = modExpectFrom
			return true, nil
		}
		p.sink(tok)
		return true, nil

	case modBraceAfterAs:
		p.sink(symbolize(tok))
		f.moduleState = modBraceAfterName
		return true, nil

	case modExpectFrom:
		if isWord(tok, token.WordFrom) {
			p.sinkKeyword(tok)
			f.moduleState = modExpectFromString
			return true, nil
		}
		// no 'from' clause (a bare export list): the clause ends here.
		p.stack.pop()
		return false, nil

	case modExpectFromString:
		p.sink(tok)
		f.moduleState = modDone
		return true, nil

	case modDefaultValue:
		// a default export's value is either a function/class declaration
		// (handed back to the statement dispatcher, which owns those) or a
		// bare expression (pushed directly so a '{' here reads as an
		// object literal, never a nested block).
		if tok.Kind == token.LIT && (tok.Hash.Word() == token.WordFunction || tok.Hash.Word() == token.WordClass) {
			p.stack.pop()
			return false, nil
		}
		ctx := f.ctx
		p.stack.pop()
		p.stack.top().attached = false
		if err := p.pushExprPlain(ctx); err != nil {
			return false, err
		}
		return p.stepExpr(p.stack.top(), tok)

	default: // modDone
		p.stack.pop()
		return false, nil
	}
}

// isWord reports whether tok is a masquerade or keyword identifier with
// the given word identity.
func isWord(tok token.Token, w token.Hash) bool {
	return tok.Kind == token.LIT && tok.Hash.Word() == w
}

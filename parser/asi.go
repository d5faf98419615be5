package parser

import "github.com/opalscript/ecmalex/token"

// valueLike reports whether a token kind can end an expression (and so can
// be followed by automatic semicolon insertion when the next token starts
// a new statement on a new line).
func valueLike(k token.Kind) bool {
	switch k {
	case token.LIT, token.SYMBOL, token.KEYWORD, token.LABEL,
		token.NUMBER, token.STRING, token.REGEXP, token.CLOSE:
		return true
	}
	return false
}

// restrictedASI implements the restricted-production rule for the operand
// of return, throw, break and continue (stepExpr checks the first token
// after the keyword): if the restricted token and the next token are on
// different source lines, or the next token is a CLOSE or EOF, a virtual
// SEMICOLON is inserted between them (of zero length, carrying the
// restricted token's own line). Postfix ++/-- has its own newline check in
// stepExprOp; yield is not subject to restricted ASI.
func (p *Parser) restrictedASI(restrictedLine int, next token.Token) bool {
	if next.Kind == token.CLOSE {
		return true
	}
	if next.Kind == token.EOF {
		return true
	}
	return next.Line != restrictedLine && next.Line != 0
}

// emitVirtualSemicolon sinks a zero-length SEMICOLON carrying the given
// line number, per the wire convention for ASI-inserted tokens.
func (p *Parser) emitVirtualSemicolon(line int) {
	p.sink(token.Token{Kind: token.SEMICOLON, Line: line})
}

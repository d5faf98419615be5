package lexer

import "github.com/opalscript/ecmalex/token"

// scanString consumes a quoted string or the head of a template literal
// starting at the current position, which holds an opening '\'', '"', or
// '`'.
func (l *Lexer) scanString(line int) (token.Token, error) {
	delim := l.input[l.pos]
	start := l.pos
	return l.scanStringBody(delim, start, start+1, line)
}

// scanTemplateContinuation resumes scanning a template literal body after
// a '${...}' interpolation's closing '}' has been consumed. No opening
// backtick is present at the current position; the body picks up right
// after the interpolation's closing '}', and a backtick seen here is the literal's
// closing delimiter, not a fresh one to skip.
func (l *Lexer) scanTemplateContinuation() (token.Token, error) {
	return l.scanStringBody('`', l.pos, l.pos, l.line)
}

// scanStringBody implements the shared scanning loop used both for a
// freshly opened quote/backtick and for a template continuation. start is
// the token's first byte (the opening delimiter for a fresh string); p is
// where scanning actually resumes, already past that delimiter if one was
// consumed.
func (l *Lexer) scanStringBody(delim byte, start, p int, line int) (token.Token, error) {
	isTemplate := delim == '`'

	for {
		if p >= len(l.input) {
			l.pos = p
			return token.Token{Kind: token.STRING, Line: line, Bytes: l.input[start:p]}, nil
		}

		c := l.input[p]
		switch c {
		case delim:
			p++
			l.pos = p
			return token.Token{Kind: token.STRING, Line: line, Bytes: l.input[start:p]}, nil

		case '$':
			if isTemplate && p+1 < len(l.input) && l.input[p+1] == '{' {
				l.pendingTBrace = true
				l.pos = p
				return token.Token{Kind: token.STRING, Line: line, Bytes: l.input[start:p]}, nil
			}
			p++

		case '\\':
			p++
			if p < len(l.input) {
				if l.input[p] == '\n' {
					l.line++
				}
				p++
			}

		case '\n':
			if !isTemplate {
				// invalid, but recovered: consume up to (not including)
				// the newline and let the parser treat it as terminated.
				l.pos = p
				return token.Token{Kind: token.STRING, Line: line, Bytes: l.input[start:p]}, nil
			}
			l.line++
			p++

		default:
			p++
		}
	}
}

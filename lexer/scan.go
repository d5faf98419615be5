package lexer

import (
	"github.com/opalscript/ecmalex/token"
)

// isSpace reports whether c is ASCII whitespace, matching the C scanner's
// use of isspace() (newlines included; newline counting happens here).
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

// identStart reports whether c can begin an identifier: ASCII letter,
// '$', '_', or any non-ASCII (UTF-8 continuation/lead) byte.
func identStart(c byte) bool {
	return isAlpha(c) || c == '$' || c == '_' || c >= 0x80
}

func identCont(c byte) bool {
	return isAlnum(c) || c == '$' || c == '_' || c >= 0x80
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if !isSpace(c) {
			return
		}
		if c == '\n' {
			l.line++
		}
		l.pos++
	}
}

// peekComment reports whether a comment begins at the current position,
// returning the distinguishing lead byte ('/' or '#').
func (l *Lexer) peekComment() (byte, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	c := l.input[l.pos]
	switch c {
	case '/':
		if l.pos+1 < len(l.input) && (l.input[l.pos+1] == '/' || l.input[l.pos+1] == '*') {
			return '/', true
		}
	case '#':
		if l.pos == 0 && l.pos+1 < len(l.input) && l.input[l.pos+1] == '!' {
			return '#', true
		}
	}
	return 0, false
}

// scanComment consumes a line comment, block comment, or leading shebang
// line (treated as a comment) and returns it as a COMMENT token. The
// caller is responsible for calling skipSpace again afterward.
func (l *Lexer) scanComment(lead byte) token.Token {
	start := l.pos
	line := l.line

	if lead == '#' {
		l.pos += 2 // '#!'
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
		return token.Token{Kind: token.COMMENT, Line: line, Bytes: l.input[start:l.pos]}
	}

	// lead == '/'
	if l.input[l.pos+1] == '/' {
		l.pos += 2
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
		return token.Token{Kind: token.COMMENT, Line: line, Bytes: l.input[start:l.pos]}
	}

	// block comment
	l.pos += 2
	for l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.pos++
			continue
		}
		if l.input[l.pos] == '*' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
			l.pos += 2
			break
		}
		l.pos++
	}
	return token.Token{Kind: token.COMMENT, Line: line, Bytes: l.input[start:l.pos]}
}

// scanOne dispatches on the current byte for every case except '/', which
// Next handles separately because it needs the has_value hint.
func (l *Lexer) scanOne(line int) (token.Token, error) {
	c := l.input[l.pos]

	switch c {
	case ';':
		return l.emit1(token.SEMICOLON, line), nil
	case '?':
		if l.optionalChaining {
			if tok, ok := l.scanOptionalChain(line); ok {
				return tok, nil
			}
		}
		if err := l.pushBracket(token.TERNARY); err != nil {
			return token.Token{}, err
		}
		return l.emit1(token.TERNARY, line), nil
	case ',':
		return l.withHash(l.emit1(token.OP, line), token.OpHash(",")), nil
	case '(':
		if err := l.pushBracket(token.PAREN); err != nil {
			return token.Token{}, err
		}
		return l.emit1(token.PAREN, line), nil
	case '[':
		if err := l.pushBracket(token.ARRAY); err != nil {
			return token.Token{}, err
		}
		return l.emit1(token.ARRAY, line), nil
	case '{':
		if err := l.pushBracket(token.BRACE); err != nil {
			return token.Token{}, err
		}
		return l.emit1(token.BRACE, line), nil
	case ')', ']', '}':
		return l.emit1(token.CLOSE, line), nil
	case ':':
		if top, ok := l.topBracket(); ok && top == token.TERNARY {
			l.brackets = l.brackets[:len(l.brackets)-1]
			return l.emit1(token.CLOSE, line), nil
		}
		return l.emit1(token.COLON, line), nil
	case '\'', '"', '`':
		return l.scanString(line)
	}

	if isDigit(c) || (c == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])) {
		return l.scanNumber(line), nil
	}

	if c == '.' {
		if l.pos+2 < len(l.input) && l.input[l.pos+1] == '.' && l.input[l.pos+2] == '.' {
			return l.withHash(l.emitN(token.OP, line, 3), token.OpHash("...")), nil
		}
		return l.withHash(l.emit1(token.OP, line), token.OpHash(".")), nil
	}

	if isOperatorStart(c) {
		return l.scanOperator(line), nil
	}

	if identStart(c) {
		return l.scanIdentifier(line), nil
	}

	// Unrecognized byte: consume it as a single-byte OP so the stream
	// always makes progress; permissive classification, per contract.
	return l.emit1(token.OP, line), nil
}

func (l *Lexer) emit1(kind token.Kind, line int) token.Token {
	return l.emitN(kind, line, 1)
}

func (l *Lexer) emitN(kind token.Kind, line int, n int) token.Token {
	start := l.pos
	l.pos += n
	return token.Token{Kind: kind, Line: line, Bytes: l.input[start:l.pos]}
}

func (l *Lexer) withHash(tok token.Token, h token.Hash) token.Token {
	tok.Hash = h
	return tok
}

// isOperatorStart reports whether c can begin a run recognized by
// scanOperator (everything in "=&|^~!%+-*<>").
func isOperatorStart(c byte) bool {
	switch c {
	case '=', '&', '|', '^', '~', '!', '%', '+', '-', '*', '<', '>':
		return true
	}
	return false
}

// scanOperator consumes one operator/punctuation run starting at the
// current byte. It first greedily matches a run of the leading byte up to
// its per-byte cap ('*'/'<': 2, allowing '**'/'<<'; '>': 3, allowing
// '>>>'; everything else: 1), checks for the fixed short forms '=>',
// '++', '--', '||', '&&' that never take a further suffix, and otherwise
// allows one trailing '=' (a second, only for '='/'!' leads, producing
// '==='/'!==').
func (l *Lexer) scanOperator(line int) token.Token {
	start := l.pos
	lead := l.input[start]

	capN := 1
	switch lead {
	case '*', '<':
		capN = 2
	case '>':
		capN = 3
	}

	p := start + 1
	run := 1
	for run < capN && p < len(l.input) && l.input[p] == lead {
		p++
		run++
	}

	if lead == '=' && run == 1 && p < len(l.input) && l.input[p] == '>' {
		p++
		return l.finishOperator(start, p, line, token.ARROW)
	}
	if run == 1 && (lead == '+' || lead == '-') && p < len(l.input) && l.input[p] == lead {
		p++
		return l.withHash(l.finishOperator(start, p, line, token.OP), hashForOp("++"))
	}
	if run == 1 && (lead == '|' || lead == '&') && p < len(l.input) && l.input[p] == lead {
		p++
		return l.finishOperator(start, p, line, token.OP)
	}

	if p < len(l.input) && l.input[p] == '=' {
		p++
		if (lead == '=' || lead == '!') && p < len(l.input) && l.input[p] == '=' {
			p++
		}
	}

	switch {
	case lead == '*' && p == start+1:
		return l.withHash(l.finishOperator(start, p, line, token.OP), hashForOp("*"))
	case lead == '~' && p == start+1:
		return l.withHash(l.finishOperator(start, p, line, token.OP), hashForOp("~"))
	case lead == '!' && p == start+1:
		return l.withHash(l.finishOperator(start, p, line, token.OP), hashForOp("!"))
	}

	return l.finishOperator(start, p, line, token.OP)
}

// scanOptionalChain recognizes '?.' (optional member/call access) and
// '??'/'??=' (nullish coalescing), both gated behind WithConfig(es2020+).
// A lone '?' followed by '.' is ambiguous with a ternary's '?' against a
// fractional-literal consequent ("a ? .5 : b"), so '?.' is only taken when
// the following byte is not a digit; '??' has no such ambiguity. Returns
// ok=false to fall through to the ordinary ternary-'?' handling.
func (l *Lexer) scanOptionalChain(line int) (token.Token, bool) {
	if l.pos+1 >= len(l.input) {
		return token.Token{}, false
	}
	switch l.input[l.pos+1] {
	case '.':
		if l.pos+2 < len(l.input) && isDigit(l.input[l.pos+2]) {
			return token.Token{}, false
		}
		return l.finishOperator(l.pos, l.pos+2, line, token.OP), true
	case '?':
		end := l.pos + 2
		if end < len(l.input) && l.input[end] == '=' {
			end++
		}
		return l.finishOperator(l.pos, end, line, token.OP), true
	}
	return token.Token{}, false
}

func (l *Lexer) finishOperator(start, end int, line int, kind token.Kind) token.Token {
	l.pos = end
	return token.Token{Kind: kind, Line: line, Bytes: l.input[start:end]}
}

// hashForOp returns the identity hash for the small set of operators the
// parser inspects individually (star, tilde, bang, inc/dec).
func hashForOp(text string) token.Hash {
	return token.OpHash(text)
}

// scanSlash is invoked only by Next, once it knows the has_value hint.
func (l *Lexer) scanSlash(hv HasValue, line int) (token.Token, error) {
	if hv == No {
		return l.scanRegexp(line)
	}
	// division or compound assignment
	start := l.pos
	end := start + 1
	if end < len(l.input) && l.input[end] == '=' {
		end++
	}
	l.pos = end
	return token.Token{Kind: token.OP, Line: line, Bytes: l.input[start:end]}, nil
}

// scanRegexp consumes a /pattern/flags literal, tracking character-class
// bracket state so a '/' inside [...] does not end the literal early.
func (l *Lexer) scanRegexp(line int) (token.Token, error) {
	start := l.pos
	p := start + 1
	inClass := false

	for {
		if p >= len(l.input) {
			break
		}
		c := l.input[p]
		switch c {
		case '/':
			if inClass {
				p++
				continue
			}
			p++
			for p < len(l.input) && isAlnum(l.input[p]) {
				p++
			}
			l.pos = p
			return token.Token{Kind: token.REGEXP, Line: line, Bytes: l.input[start:p]}, nil
		case '\n':
			l.pos = p
			return token.Token{Kind: token.REGEXP, Line: line, Bytes: l.input[start:p]}, nil
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\\':
			p++
		}
		p++
	}

	l.pos = p
	return token.Token{Kind: token.REGEXP, Line: line, Bytes: l.input[start:p]}, nil
}

// scanNumber consumes a maximal [A-Za-z0-9.]* run starting at a digit, or
// a '.' known to be followed by a digit. Classification is deliberately
// lenient: malformed numeric literals are still consumed whole so the
// stream makes progress (this same leniency is what already lets a
// trailing BigInt 'n' suffix, e.g. "123n", fall out for free as part of
// the literal with no dedicated handling). A '_' digit separator
// (e.g. "1_000") is only swept into the run when WithConfig(es2021+)
// enabled numericSeparators; otherwise it ends the number there, as it
// would have before separators existed.
func (l *Lexer) scanNumber(line int) token.Token {
	start := l.pos
	p := start + 1
	for p < len(l.input) {
		c := l.input[p]
		if isAlnum(c) || c == '.' {
			p++
			continue
		}
		if c == '_' && l.numericSeparators {
			p++
			continue
		}
		break
	}
	l.pos = p
	return token.Token{Kind: token.NUMBER, Line: line, Bytes: l.input[start:p]}
}

// scanIdentifier consumes a maximal identifier run, cancelling the
// keyword hash whenever a '\' escape appears in it (reserved words cannot
// be spelled with Unicode escapes).
func (l *Lexer) scanIdentifier(line int) token.Token {
	start := l.pos
	p := start
	sawEscape := false

	for p < len(l.input) {
		c := l.input[p]
		if c == '\\' {
			sawEscape = true
			p++
			if p < len(l.input) && l.input[p] == 'u' {
				p++
				if p < len(l.input) && l.input[p] == '{' {
					for p < len(l.input) && l.input[p] != '}' {
						p++
					}
				} else {
					for i := 0; i < 4 && p < len(l.input); i++ {
						p++
					}
				}
			}
			p++
			continue
		}
		if p == start {
			if !identStart(c) {
				break
			}
		} else if !identCont(c) {
			break
		}
		p++
	}

	l.pos = p
	bytes := l.input[start:p]

	var h token.Hash
	if !sawEscape {
		h = token.Lookup(bytes)
	}
	return token.Token{Kind: token.LIT, Line: line, Bytes: bytes, Hash: h}
}
